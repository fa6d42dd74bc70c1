package runtime

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunChecks(t *testing.T) {
	boom := errors.New("boom")
	results := RunChecks(context.Background(), time.Second,
		ReadyCheck{Name: "ok", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "skipped"},
		ReadyCheck{Check: func(context.Context) error { return boom }},
	)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].OK() || results[0].Name != "ok" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Name != "dependency" || !errors.Is(results[1].Err, boom) {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
}

func TestRunChecksTimeout(t *testing.T) {
	results := RunChecks(context.Background(), 10*time.Millisecond, ReadyCheck{
		Name: "slow",
		Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})
	if len(results) != 1 || !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %+v", results)
	}
}

func TestRunChecksConcurrently(t *testing.T) {
	slow := func(ctx context.Context) error {
		select {
		case <-time.After(100 * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	start := time.Now()
	results := RunChecks(context.Background(), time.Second,
		ReadyCheck{Name: "api", Check: slow},
		ReadyCheck{Name: "redis", Check: slow},
		ReadyCheck{Name: "kafka", Check: slow},
	)
	if elapsed := time.Since(start); elapsed >= 250*time.Millisecond {
		t.Fatalf("checks ran one after another (%s)", elapsed)
	}
	for i, name := range []string{"api", "redis", "kafka"} {
		if results[i].Name != name || !results[i].OK() {
			t.Fatalf("unexpected result %d: %+v", i, results[i])
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG").String() != "DEBUG" {
		t.Fatal("expected debug level")
	}
	if ParseLevel("").String() != "INFO" {
		t.Fatal("expected info level by default")
	}
}
