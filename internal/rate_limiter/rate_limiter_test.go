package rate_limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptWithinWindow(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		decision, err := rl.Attempt(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}

	decision, err := rl.Attempt(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.True(t, decision.ResetAt.After(time.Now().Add(-time.Second)))

	decision, err = rl.Attempt(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	remaining, err := rl.Remaining(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestAttemptAfterWindowExpires(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(1, 100*time.Millisecond)

	decision, err := rl.Attempt(ctx, "client")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = rl.Attempt(ctx, "client")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	time.Sleep(250 * time.Millisecond)

	decision, err = rl.Attempt(ctx, "client")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestResetForgetsKey(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(1, time.Minute)

	_, err := rl.Attempt(ctx, "client")
	require.NoError(t, err)
	require.NoError(t, rl.Reset(ctx, "client"))

	remaining, err := rl.Remaining(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}
