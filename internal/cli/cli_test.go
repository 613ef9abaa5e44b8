package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indicator-tide/indicator-tide/internal/config"
	"github.com/indicator-tide/indicator-tide/internal/models"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return rootCmd.Execute()
}

func TestConfigSet_Persists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.HomeEnvVar, dir)

	require.NoError(t, execute(t, "config", "set", config.KeyDurationDays, "3"))
	require.NoError(t, execute(t, "config", "set", config.KeyProviderPathAndFilename, "builtin:noaa"))

	store := config.NewStore(filepath.Join(dir, config.ConfigFileName), nil)
	require.NoError(t, store.LoadPersisted())
	cfg := store.Config()
	assert.Equal(t, 3, cfg.DurationDays)
	assert.Equal(t, "builtin:noaa", cfg.ProviderPathAndFilename)
}

func TestConfigSet_RejectsBadValue(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.HomeEnvVar, dir)

	assert.Error(t, execute(t, "config", "set", config.KeyDurationDays, "45"))
	assert.False(t, config.FileExists(filepath.Join(dir, config.ConfigFileName)))
}

func TestApplyCheckOverrides(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		addCheckFlags(c.Flags())
		return c
	}

	t.Run("builtin defaults class", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Parse([]string{"--provider", "builtin:noaa", "--days", "2", "--submenus"}))

		cfg, err := applyCheckOverrides(c, *models.NewConfiguration())
		require.NoError(t, err)
		assert.Equal(t, "builtin:noaa", cfg.ProviderPathAndFilename)
		assert.Equal(t, "noaa", cfg.ProviderClassName)
		assert.Equal(t, 2, cfg.DurationDays)
		assert.True(t, cfg.ShowAsSubmenus)
	})

	t.Run("days out of range", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Parse([]string{"--days", "40"}))

		_, err := applyCheckOverrides(c, *models.NewConfiguration())
		assert.ErrorIs(t, err, models.ErrDurationOutOfRange)
	})
}
