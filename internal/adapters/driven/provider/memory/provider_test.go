package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

var day = domain.DateRange{
	Start: time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, time.March, 13, 23, 59, 59, 0, time.UTC),
}

func at(h int) time.Time {
	return time.Date(2024, time.March, 13, h, 0, 0, 0, time.UTC)
}

func TestProvider_FiltersAndSorts(t *testing.T) {
	p := New(
		domain.Meeting{Subject: "late", Start: at(15), End: at(16)},
		domain.Meeting{Subject: "early", Start: at(9), End: at(10)},
		domain.Meeting{Subject: "overnight", Start: at(23), End: at(23).Add(2 * time.Hour)},
	)

	conn, err := p.Connect(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	items, err := conn.Appointments(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first, err := driven.Materialize(items[0])
	require.NoError(t, err)
	assert.Equal(t, "early", first.Subject)
}

func TestProvider_FieldFailure(t *testing.T) {
	p := New()
	idx := p.Add(domain.Meeting{Subject: "broken", Start: at(9), End: at(10)})
	p.FailField(idx, domain.FieldOrganizer, errors.New("access denied"))

	conn, err := p.Connect(context.Background())
	require.NoError(t, err)
	items, err := conn.Appointments(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = items[0].Text(domain.FieldOrganizer)
	assert.True(t, errors.Is(err, domain.ErrFieldAccess))

	subject, err := items[0].Text(domain.FieldSubject)
	require.NoError(t, err)
	assert.Equal(t, "broken", subject)
}

func TestProvider_ConnectAndQueryErrors(t *testing.T) {
	p := New()
	p.FailConnect(domain.ErrProviderNotInstalled)

	_, err := p.Connect(context.Background())
	assert.True(t, errors.Is(err, domain.ErrProviderNotInstalled))

	p.FailConnect(nil)
	p.FailQuery(errors.New("boom"))
	conn, err := p.Connect(context.Background())
	require.NoError(t, err)
	_, err = conn.Appointments(context.Background(), day)
	assert.EqualError(t, err, "boom")
}

func TestProvider_Stats(t *testing.T) {
	p := New()

	conn, err := p.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	connects, closes := p.Stats()
	assert.Equal(t, 1, connects)
	assert.Equal(t, 1, closes)

	_, err = conn.Appointments(context.Background(), day)
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}

func TestProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
