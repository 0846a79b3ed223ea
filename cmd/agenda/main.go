// Command agenda lists calendar meetings from the terminal, a launcher
// plugin, an MCP client or an interactive TUI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/config/file"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/cli"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
	"github.com/custodia-labs/outlook-agenda/internal/core/services"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	w := &wiring{}
	cli.SetVersion(version)
	cli.SetBootstrap(w.wire)

	err := cli.Execute()
	w.close()
	if err != nil {
		os.Exit(1)
	}
}

// wiring owns the resources opened for one invocation.
type wiring struct {
	store *sqlite.Store
}

// wire builds the services from the configuration in configDir
// and hands them to the CLI.
func (w *wiring) wire(configDir string) error {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return fmt.Errorf("locating config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	cli.SetSettingsService(settingsService)
	settings := settingsService.Get()
	logger.Debug("Config: %s", settingsService.Path())

	var cache driven.MeetingCache
	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		// Queries still work uncached
		logger.Warn("Meeting cache unavailable: %v", err)
	} else {
		w.store = store
		cache = store.MeetingCache()
		cli.SetMeetingCache(cache)
	}

	resolver := services.NewDateRangeResolver().WithDefaultPeriod(settings.DefaultPeriod)

	calendar, err := provider.New(settings, cache)
	if err != nil {
		// Config commands must keep working while the provider is misconfigured
		logger.Warn("%v", err)
		cli.SetAgendaService(services.NewAgendaService(nil, resolver))
		return nil
	}
	logger.Debug("Provider: %s", calendar.Name())

	cli.SetAgendaService(services.NewAgendaService(calendar, resolver))
	if notifier, ok := calendar.(driving.ChangeNotifier); ok {
		cli.SetChangeNotifier(notifier)
	}
	return nil
}

func (w *wiring) close() {
	if w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		logger.Warn("closing cache: %v", err)
	}
}
