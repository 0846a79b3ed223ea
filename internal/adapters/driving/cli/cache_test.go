package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

func TestCacheClear(t *testing.T) {
	env := setupTestServices(t)
	r := domain.DateRange{Start: at(13, 0, 0), End: at(13, 23, 59)}
	require.NoError(t, env.cache.Put(context.Background(), "memory", r, sampleMeetings()))

	out, err := execute(t, "cache", "clear")

	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cached entries")

	_, ok, err := env.cache.Get(context.Background(), "memory", r, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheClear_NotConfigured(t *testing.T) {
	_, err := execute(t, "cache", "clear")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "meeting cache not configured")
}
