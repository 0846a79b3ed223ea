package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

func TestConfigCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(configCmd.Commands()))
	for _, c := range configCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"path", "get", "set", "set-secret"}, names)
}

func TestConfigPath(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, ":memory:\n", out)
}

func TestConfigSetAndGet(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "config", "set", "query.default_period", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "Set query.default_period")
	assert.Equal(t, domain.PeriodWeek, env.settings.Get().DefaultPeriod)

	out, err = execute(t, "config", "get", "query.default_period")
	require.NoError(t, err)
	assert.Equal(t, "week\n", out)
}

func TestConfigSet_InvalidValue(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "config", "set", "query.include_past", "maybe")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigSet_UnknownKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "config", "set", "search.mode", "hybrid")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigSet_SecretWarns(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "config", "set", "caldav.password", "hunter2")

	require.NoError(t, err)
	assert.Contains(t, out, "set-secret caldav.password")
}

func TestConfigGet_Unset(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "config", "get", "ics.path")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ics.path is not set")
}

func TestConfigGet_ListsAllKeys(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.SetValue("provider", "ics"))
	require.NoError(t, env.settings.SetValue("google.refresh_token", "1//0abcdefghijkl"))

	out, err := execute(t, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "provider = ics\n")
	assert.Contains(t, out, "ics.path = (not set)\n")
	assert.Contains(t, out, "google.refresh_token = 1//0...ijkl\n")
	assert.NotContains(t, out, "abcdefgh")
}

func TestConfigSetSecret_ReadsInput(t *testing.T) {
	env := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("s3cret-password\n"))

	out, err := execute(t, "config", "set-secret", "caldav.password")

	require.NoError(t, err)
	assert.Contains(t, out, "Set caldav.password")
	assert.Equal(t, "s3cret-password", env.settings.Get().CalDAV.Password)
}

func TestConfigSetSecret_Empty(t *testing.T) {
	setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("\n"))

	_, err := execute(t, "config", "set-secret", "caldav.password")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value entered")
}

func TestConfig_NoSettingsService(t *testing.T) {
	_, err := execute(t, "config", "path")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "abcd...mnop", maskSecret("abcdefghijklmnop"))
}
