package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driven/provider/memory"
	storage "github.com/custodia-labs/outlook-agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/services"
)

var testNow = time.Date(2024, time.March, 13, 8, 0, 0, 0, time.UTC)

func at(day, h, m int) time.Time {
	return time.Date(2024, time.March, day, h, m, 0, 0, time.UTC)
}

func sampleMeetings() []domain.Meeting {
	return []domain.Meeting{
		{Subject: "Early sync", Start: at(13, 7, 0), End: at(13, 7, 30), Organizer: "Alice"},
		{
			Subject:           "Standup",
			Start:             at(13, 9, 0),
			End:               at(13, 9, 15),
			Organizer:         "Alice",
			RequiredAttendees: "Bob; Carol",
			Location:          "Teams",
		},
		{Subject: "Design review", Start: at(14, 10, 0), End: at(14, 11, 0), Organizer: "Bob"},
	}
}

// testEnv holds the services wired for a test.
type testEnv struct {
	provider *memory.Provider
	settings *services.SettingsService
	cache    *storage.MeetingCache
}

// setupTestServices wires real services over an in-memory calendar
// and restores the package state when the test ends.
func setupTestServices(t *testing.T, meetings ...domain.Meeting) *testEnv {
	t.Helper()

	env := &testEnv{
		provider: memory.New(meetings...),
		settings: services.NewSettingsService(storage.NewConfigStore()),
		cache:    storage.NewMeetingCache(),
	}

	SetAgendaService(newAgendaService(env.provider))
	SetSettingsService(env.settings)
	SetMeetingCache(env.cache)

	t.Cleanup(func() {
		SetAgendaService(nil)
		SetSettingsService(nil)
		SetMeetingCache(nil)
		SetChangeNotifier(nil)
		SetBootstrap(nil)
	})
	return env
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed
// values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func newAgendaService(p *memory.Provider) *services.AgendaService {
	clock := func() time.Time { return testNow }
	resolver := services.NewDateRangeResolver().WithClock(clock).WithLocation(time.UTC)
	return services.NewAgendaService(p, resolver).WithClock(clock)
}
