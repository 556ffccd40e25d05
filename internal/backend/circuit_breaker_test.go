package backend

import (
	"errors"
	"testing"
	"time"

	"resumatch/internal/config"
)

func breakerConfig(enabled bool) config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          enabled,
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          5 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestNewBreakerDisabled(t *testing.T) {
	b := NewBreaker[int]("test", breakerConfig(false), nil)
	if b != nil {
		t.Fatal("expected nil breaker when disabled")
	}

	// Nil breakers still execute calls directly.
	got, err := b.Execute(func() (int, error) { return 42, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if !b.Healthy() {
		t.Error("nil breaker should report healthy")
	}
	stats := b.Stats()
	if enabled, ok := stats["enabled"].(bool); !ok || enabled {
		t.Errorf("nil breaker stats = %v, want enabled=false", stats)
	}
}

func TestBreakerPassesThroughResults(t *testing.T) {
	b := NewBreaker[string]("test", breakerConfig(true), nil)
	if b == nil {
		t.Fatal("expected breaker when enabled")
	}

	got, err := b.Execute(func() (string, error) { return "ok", nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}

	wantErr := errors.New("backend down")
	if _, err := b.Execute(func() (string, error) { return "", wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("got error %v, want %v", err, wantErr)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	b := NewBreaker[int]("test", breakerConfig(true), nil)

	fail := errors.New("boom")
	for range 5 {
		b.Execute(func() (int, error) { return 0, fail }) //nolint:errcheck
	}

	if b.Healthy() {
		t.Error("breaker should be open after repeated failures")
	}
	stats := b.Stats()
	if state, _ := stats["state"].(string); state != "open" {
		t.Errorf("breaker state = %q, want %q", state, "open")
	}
}
