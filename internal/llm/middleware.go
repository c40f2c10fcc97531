package llm

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/time/rate"

	"github.com/decklint/decklint/internal/cache"
)

// RateLimitedJudge throttles oracle calls with a client-side token
// bucket so concurrent workers stay within provider rate limits.
type RateLimitedJudge struct {
	inner   Judge
	limiter *rate.Limiter
}

// RateLimited wraps a judge with a rate limiter. perSecond <= 0
// returns the judge unchanged.
func RateLimited(j Judge, perSecond float64, burst int) Judge {
	if perSecond <= 0 {
		return j
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedJudge{
		inner:   j,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (r *RateLimitedJudge) Name() string { return r.inner.Name() }

func (r *RateLimitedJudge) IsAvailable(ctx context.Context) bool {
	return r.inner.IsAvailable(ctx)
}

func (r *RateLimitedJudge) Judge(ctx context.Context, textA, textB string) (*Verdict, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Judge(ctx, textA, textB)
}

// CachedJudge memoizes verdicts for identical text pairs. Identical
// slide pairs are common across repeated runs in one process; errors
// are never cached.
type CachedJudge struct {
	inner Judge
	store cache.Cache
	ttl   time.Duration
}

// Cached wraps a judge with an in-process verdict cache
func Cached(j Judge, store cache.Cache, ttl time.Duration) Judge {
	return &CachedJudge{inner: j, store: store, ttl: ttl}
}

func (c *CachedJudge) Name() string { return c.inner.Name() }

func (c *CachedJudge) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *CachedJudge) Judge(ctx context.Context, textA, textB string) (*Verdict, error) {
	key := cache.PairKey(c.inner.Name(), textA, textB)

	if data, found := c.store.Get(key); found {
		var v Verdict
		if err := json.Unmarshal(data, &v); err == nil {
			return &v, nil
		}
	}

	v, err := c.inner.Judge(ctx, textA, textB)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(v); err == nil {
		_ = c.store.Set(key, data, c.ttl)
	}
	return v, nil
}
