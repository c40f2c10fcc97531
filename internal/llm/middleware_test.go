package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/decklint/decklint/internal/cache"
)

// countingJudge returns a fixed verdict and counts calls
type countingJudge struct {
	calls   int
	verdict *Verdict
	err     error
}

func (c *countingJudge) Name() string { return "counting" }

func (c *countingJudge) IsAvailable(ctx context.Context) bool { return true }

func (c *countingJudge) Judge(ctx context.Context, textA, textB string) (*Verdict, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.verdict, nil
}

func TestCachedJudge_MemoizesVerdicts(t *testing.T) {
	inner := &countingJudge{verdict: &Verdict{Consistent: false, Reason: "conflict"}}
	store := cache.NewMemoryCache(time.Hour, time.Hour)
	judge := Cached(inner, store, time.Hour)

	for i := 0; i < 3; i++ {
		v, err := judge.Judge(context.Background(), "slide a", "slide b")
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if v.Consistent || v.Reason != "conflict" {
			t.Errorf("call %d verdict = %+v, want the cached conflict", i, v)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (verdict should be memoized)", inner.calls)
	}
}

func TestCachedJudge_DistinctPairsAreDistinctEntries(t *testing.T) {
	inner := &countingJudge{verdict: &Verdict{Consistent: true}}
	store := cache.NewMemoryCache(time.Hour, time.Hour)
	judge := Cached(inner, store, time.Hour)

	_, _ = judge.Judge(context.Background(), "a", "b")
	_, _ = judge.Judge(context.Background(), "b", "a") // ordered pair, not symmetric
	_, _ = judge.Judge(context.Background(), "a", "c")

	if inner.calls != 3 {
		t.Errorf("inner calls = %d, want 3 distinct cache entries", inner.calls)
	}
}

func TestCachedJudge_ErrorsNotCached(t *testing.T) {
	inner := &countingJudge{err: fmt.Errorf("connection refused")}
	store := cache.NewMemoryCache(time.Hour, time.Hour)
	judge := Cached(inner, store, time.Hour)

	for i := 0; i < 2; i++ {
		if _, err := judge.Judge(context.Background(), "a", "b"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 (errors must not be cached)", inner.calls)
	}
}

func TestRateLimited_ZeroRateIsPassthrough(t *testing.T) {
	inner := &countingJudge{verdict: &Verdict{Consistent: true}}
	if got := RateLimited(inner, 0, 1); got != Judge(inner) {
		t.Error("expected unlimited rate to return the judge unchanged")
	}
}

func TestRateLimited_CancelledContext(t *testing.T) {
	inner := &countingJudge{verdict: &Verdict{Consistent: true}}
	judge := RateLimited(inner, 0.001, 1)

	// Burn the single burst token, then a cancelled context must
	// surface as an error instead of blocking.
	if _, err := judge.Judge(context.Background(), "a", "b"); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := judge.Judge(ctx, "a", "c"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestNewJudge_Factory(t *testing.T) {
	// Empty provider disables the oracle without error.
	judge, err := NewJudge(Config{})
	if err != nil {
		t.Fatalf("expected disabled oracle, got error: %v", err)
	}
	if judge != nil {
		t.Error("expected nil judge for empty provider")
	}

	if _, err := NewJudge(Config{Provider: "openai", APIKey: "k"}); err != nil {
		t.Errorf("openai provider failed: %v", err)
	}
	if _, err := NewJudge(Config{Provider: "claude", APIKey: "k"}); err != nil {
		t.Errorf("claude alias failed: %v", err)
	}
	if _, err := NewJudge(Config{Provider: "ollama"}); err != nil {
		t.Errorf("ollama provider failed: %v", err)
	}
	if _, err := NewJudge(Config{Provider: "bard"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
