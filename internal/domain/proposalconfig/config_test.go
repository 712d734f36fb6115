package proposalconfig

import (
	"encoding/json"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MatchWeight() != 0.7 {
		t.Errorf("MatchWeight: got %v", cfg.MatchWeight())
	}
	if cfg.RecencyWeight() != 0.3 {
		t.Errorf("RecencyWeight: got %v", cfg.RecencyWeight())
	}
	if cfg.RecencyWindowMs() != 7*24*60*60*1000 {
		t.Errorf("RecencyWindowMs: got %v", cfg.RecencyWindowMs())
	}
	if cfg.MinJaccard() != 0.2 {
		t.Errorf("MinJaccard: got %v", cfg.MinJaccard())
	}
	if cfg.MaxProposals() != 5 {
		t.Errorf("MaxProposals: got %v", cfg.MaxProposals())
	}
}

func TestApply_MergesAndStamps(t *testing.T) {
	mw := 0.5
	mp := 10
	patch := Patch{MatchWeight: &mw, MaxProposals: &mp}

	base := Default()
	next, err := base.Apply(patch, 1234)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.MatchWeight() != 0.5 {
		t.Errorf("MatchWeight not applied: got %v", next.MatchWeight())
	}
	if next.MaxProposals() != 10 {
		t.Errorf("MaxProposals not applied: got %v", next.MaxProposals())
	}
	if next.RecencyWeight() != 0.3 {
		t.Errorf("unpatched field changed: got %v", next.RecencyWeight())
	}
	if next.UpdatedAt() != 1234 {
		t.Errorf("UpdatedAt not stamped: got %v", next.UpdatedAt())
	}

	// Receiver untouched
	if base.MatchWeight() != 0.7 || base.UpdatedAt() != 0 {
		t.Error("Apply mutated the receiver")
	}
}

func TestApply_RejectsInvalidPatch(t *testing.T) {
	mw := 1.5
	if _, err := Default().Apply(Patch{MatchWeight: &mw}, 1); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestVersionHash_Deterministic(t *testing.T) {
	a := Reconstruct(0.7, 0.3, 1000, 0.2, 5, 42)
	b := Reconstruct(0.7, 0.3, 1000, 0.2, 5, 42)

	if a.VersionHash() != b.VersionHash() {
		t.Error("identical configs must share a version hash")
	}
	if len(a.VersionHash()) != 64 {
		t.Errorf("expected hex sha256, got %q", a.VersionHash())
	}
}

func TestVersionHash_ChangesWithContent(t *testing.T) {
	a := Reconstruct(0.7, 0.3, 1000, 0.2, 5, 42)
	b := Reconstruct(0.6, 0.3, 1000, 0.2, 5, 42)

	if a.VersionHash() == b.VersionHash() {
		t.Error("different configs must not share a version hash")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	orig := Reconstruct(0.55, 0.45, 86400000, 0.1, 7, 1700000000000)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Config
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got != orig {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, orig)
	}
	if got.VersionHash() != orig.VersionHash() {
		t.Error("round trip must preserve the version hash")
	}
}
