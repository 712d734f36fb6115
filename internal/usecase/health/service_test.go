package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status: got %q, want %q", report.Status, Healthy)
	}
	if report.Checks["store"] != CheckOK || report.Checks["extraction"] != CheckOK {
		t.Errorf("checks: got %v", report.Checks)
	}
}

func TestCheck_StoreFailureDegrades(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status: got %q, want %q", report.Status, Degraded)
	}
	if report.Checks["store"] != CheckError {
		t.Errorf("store check: got %q", report.Checks["store"])
	}
	if report.Checks["extraction"] != CheckOK {
		t.Errorf("extraction check: got %q", report.Checks["extraction"])
	}
}

func TestCheck_ExtractionFailureDegrades(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("401 unauthorized")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status: got %q, want %q", report.Status, Degraded)
	}
	if report.Checks["extraction"] != CheckError {
		t.Errorf("extraction check: got %q", report.Checks["extraction"])
	}
}

func TestCheck_NilExtractionChecker(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status: got %q, want %q", report.Status, Healthy)
	}
	if _, ok := report.Checks["extraction"]; ok {
		t.Error("nil checker must not produce an extraction entry")
	}
	if len(report.Checks) != 1 {
		t.Errorf("expected only the store check, got %v", report.Checks)
	}
}
