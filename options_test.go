package recall

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_RequiresStoreAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error without WithRedis")
	}
	if !strings.Contains(err.Error(), "WithRedis") {
		t.Errorf("error must point at the missing option, got %q", err)
	}
}

func TestOptions_Apply(t *testing.T) {
	logger := zap.NewNop()
	cfg := &clientConfig{userID: "local", logger: zap.NewNop()}

	opts := []Option{
		WithRedis("localhost:6379", "secret"),
		WithUserID("alice"),
		WithCache(20, 30*time.Second),
		WithDismissalCapacity(100),
		WithExtraction("openai", "sk-test", "https://api.example.com/v1", "gpt-4o-mini"),
		WithLogger(logger),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("redis: got %v / %q", cfg.addrs, cfg.password)
	}
	if cfg.userID != "alice" {
		t.Errorf("userID: got %q", cfg.userID)
	}
	if cfg.cacheCapacity != 20 || cfg.cacheTTL != 30*time.Second {
		t.Errorf("cache: got %d / %v", cfg.cacheCapacity, cfg.cacheTTL)
	}
	if cfg.dismissalCapacity != 100 {
		t.Errorf("dismissalCapacity: got %d", cfg.dismissalCapacity)
	}
	if cfg.extractionProvider != "openai" || cfg.extractionAPIKey != "sk-test" ||
		cfg.extractionBaseURL != "https://api.example.com/v1" || cfg.extractionModel != "gpt-4o-mini" {
		t.Errorf("extraction: got %+v", cfg)
	}
	if cfg.logger != logger {
		t.Error("logger not applied")
	}
}

func TestWithUserID_EmptyKeepsDefault(t *testing.T) {
	cfg := &clientConfig{userID: "local"}
	WithUserID("").apply(cfg)
	if cfg.userID != "local" {
		t.Errorf("userID: got %q", cfg.userID)
	}
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	base := zap.NewNop()
	cfg := &clientConfig{logger: base}
	WithLogger(nil).apply(cfg)
	if cfg.logger != base {
		t.Error("nil logger must not replace the default")
	}
}
