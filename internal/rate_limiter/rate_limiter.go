package rate_limiter

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter counts attempts per key in fixed windows kept in process memory.
type RateLimiter struct {
	limiter *limiter.Limiter
	limit   int
}

// Decision is the outcome of one attempt.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "login",
		CleanUpInterval: window,
	})

	return &RateLimiter{
		limiter: limiter.New(store, limiter.Rate{Period: window, Limit: int64(limit)}),
		limit:   limit,
	}
}

func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Attempt records an attempt for key and reports whether it fits in the window.
func (rl *RateLimiter) Attempt(ctx context.Context, key string) (Decision, error) {
	lctx, err := rl.limiter.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	return toDecision(lctx), nil
}

// Remaining returns how many attempts key has left without consuming one.
func (rl *RateLimiter) Remaining(ctx context.Context, key string) (int, error) {
	lctx, err := rl.limiter.Peek(ctx, key)
	if err != nil {
		return 0, err
	}
	return int(lctx.Remaining), nil
}

// Reset forgets the attempts of key.
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	_, err := rl.limiter.Reset(ctx, key)
	return err
}

func toDecision(lctx limiter.Context) Decision {
	return Decision{
		Allowed:   !lctx.Reached,
		Remaining: int(lctx.Remaining),
		ResetAt:   time.Unix(lctx.Reset, 0).UTC(),
	}
}
