//go:build !windows

package outlook

import (
	"context"
	"fmt"
	"runtime"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
)

// Connect implements driven.CalendarProvider.
// Outlook COM automation is unavailable on this platform.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s requires Windows (running on %s)",
		domain.ErrProviderNotInstalled, p.progID, runtime.GOOS)
}
