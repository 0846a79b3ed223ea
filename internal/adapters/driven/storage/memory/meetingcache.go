package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// Ensure MeetingCache implements the interface.
var _ driven.MeetingCache = (*MeetingCache)(nil)

type cacheEntry struct {
	meetings  []domain.Meeting
	fetchedAt time.Time
}

// MeetingCache is an in-memory implementation of driven.MeetingCache.
type MeetingCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMeetingCache creates an empty cache.
func NewMeetingCache() *MeetingCache {
	return &MeetingCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// WithClock sets the clock used for entry ages.
func (c *MeetingCache) WithClock(now func() time.Time) *MeetingCache {
	c.now = now
	return c
}

func cacheKey(provider string, r domain.DateRange) string {
	return provider + "|" + r.Start.UTC().Format(time.RFC3339) + "|" + r.End.UTC().Format(time.RFC3339)
}

// Get returns a copy of the entry if it is younger than maxAge.
func (c *MeetingCache) Get(
	_ context.Context, provider string, r domain.DateRange, maxAge time.Duration,
) ([]domain.Meeting, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cacheKey(provider, r)]
	if !ok || c.now().Sub(e.fetchedAt) > maxAge {
		return nil, false, nil
	}
	out := make([]domain.Meeting, len(e.meetings))
	copy(out, e.meetings)
	return out, true, nil
}

// Put stores a copy of meetings.
func (c *MeetingCache) Put(_ context.Context, provider string, r domain.DateRange, meetings []domain.Meeting) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]domain.Meeting, len(meetings))
	copy(stored, meetings)
	c.entries[cacheKey(provider, r)] = cacheEntry{meetings: stored, fetchedAt: c.now()}
	return nil
}

// Purge removes all entries.
func (c *MeetingCache) Purge(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	return n, nil
}
