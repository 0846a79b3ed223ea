package ics

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// Ensure Provider implements the interface.
var _ driving.ChangeNotifier = (*Provider)(nil)

// Changes signals when the calendar file is modified. Bursts of events
// are coalesced. The channel closes when ctx is done.
// The parent directory is watched since editors often replace files.
func (p *Provider) Changes(ctx context.Context) (<-chan struct{}, error) {
	if p.source == "" {
		return nil, fmt.Errorf("%w: ics.path is empty", domain.ErrNotConfigured)
	}
	if p.IsRemote() {
		return nil, fmt.Errorf("%w: change notifications require a local file", domain.ErrInvalidInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.absPath())); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", p.source, err)
	}

	out := make(chan struct{}, 1)
	go p.watch(ctx, watcher, out)
	return out, nil
}

func (p *Provider) watch(ctx context.Context, watcher *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer watcher.Close()

	timer := time.NewTimer(p.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if p.handleFsEvent(event) {
				timer.Reset(p.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watching %s: %v", p.source, err)
		case <-timer.C:
			logger.Debug("Calendar file changed: %s", p.source)
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// handleFsEvent reports whether an event affects the calendar file.
func (p *Provider) handleFsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != p.absPath() {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) ||
		event.Has(fsnotify.Remove)
}
