package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// retention is how long stale entries are kept before Put removes them.
const retention = 24 * time.Hour

// meetingCache implements driven.MeetingCache.
type meetingCache struct {
	store *Store
}

var _ driven.MeetingCache = (*meetingCache)(nil)

func rangeKeys(r domain.DateRange) (string, string) {
	return r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339)
}

// Get returns the cached meetings if the entry is younger than maxAge.
func (c *meetingCache) Get(
	ctx context.Context, provider string, r domain.DateRange, maxAge time.Duration,
) ([]domain.Meeting, bool, error) {
	start, end := rangeKeys(r)
	row := c.store.db.QueryRowContext(ctx, `
		SELECT payload, fetched_at FROM meeting_cache
		WHERE provider = ? AND range_start = ? AND range_end = ?
	`, provider, start, end)

	var payload string
	var fetchedAt int64
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scanning cache entry: %w", err)
	}

	if c.store.now().Sub(time.Unix(0, fetchedAt)) > maxAge {
		return nil, false, nil
	}

	var meetings []domain.Meeting
	if err := json.Unmarshal([]byte(payload), &meetings); err != nil {
		return nil, false, fmt.Errorf("unmarshalling cache entry: %w", err)
	}
	if meetings == nil {
		meetings = []domain.Meeting{}
	}
	return meetings, true, nil
}

// Put stores meetings, replacing any entry for the same provider and range.
func (c *meetingCache) Put(ctx context.Context, provider string, r domain.DateRange, meetings []domain.Meeting) error {
	if meetings == nil {
		meetings = []domain.Meeting{}
	}
	payload, err := json.Marshal(meetings)
	if err != nil {
		return fmt.Errorf("marshalling meetings: %w", err)
	}

	now := c.store.now()
	start, end := rangeKeys(r)

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO meeting_cache (id, provider, range_start, range_end, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider, range_start, range_end) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, uuid.NewString(), provider, start, end, string(payload), now.UnixNano())
	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx,
		"DELETE FROM meeting_cache WHERE fetched_at < ?", now.Add(-retention).UnixNano())
	if err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}
	return nil
}

// Purge removes all entries.
func (c *meetingCache) Purge(ctx context.Context) (int, error) {
	res, err := c.store.db.ExecContext(ctx, "DELETE FROM meeting_cache")
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return int(n), nil
}
