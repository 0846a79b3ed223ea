package google

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Backoff(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(DefaultRateLimit)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow())

	rl.RecordRateLimitError(30 * time.Second)
	assert.False(t, rl.Allow())

	now = now.Add(31 * time.Second)
	assert.True(t, rl.Allow())
}

func TestRateLimiter_DefaultBackoff(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(DefaultRateLimit)
	rl.now = func() time.Time { return now }

	rl.RecordRateLimitError(0)

	now = now.Add(59 * time.Second)
	assert.False(t, rl.Allow())
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimit)
	rl.RecordRateLimitError(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}
