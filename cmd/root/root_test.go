package root_test

import (
	"os"
	"testing"

	"fjacquet/miamala/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

// isolate runs the test from an empty directory so no config.yaml or .env
// is picked up, and resets the shared state afterwards.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	for _, key := range []string{"MIAMALA_LOG_LEVEL", "MIAMALA_LOG_FORMAT", "MIAMALA_CSV_DELIMITER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	flags, cfg, c := root.SharedFlags, root.AppConfig, root.AppContainer
	t.Cleanup(func() {
		root.SharedFlags, root.AppConfig, root.AppContainer = flags, cfg, c
	})
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "miamala", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "mobile-money SMS")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"config", ""},
		{"log-level", ""},
		{"log-format", ""},
		{"csv-delimiter", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestSetup(t *testing.T) {
	isolate(t)
	root.SharedFlags = root.CommonFlags{CSVDelimiter: ";", LogLevel: "debug"}

	require.NoError(t, root.Setup(&cobra.Command{Use: "test"}))

	require.NotNil(t, root.GetContainer())
	assert.Same(t, root.AppConfig, root.GetContainer().GetConfig())
	assert.Equal(t, ";", root.AppConfig.CSV.Delimiter)
	assert.Equal(t, "debug", root.AppConfig.Log.Level)
	assert.Equal(t, ';', root.GetContainer().GetCSVWriter().Delimiter())
}

func TestSetup_InvalidOverride(t *testing.T) {
	isolate(t)
	root.SharedFlags = root.CommonFlags{CSVDelimiter: ";;"}

	err := root.Setup(&cobra.Command{Use: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delimiter")
}

func TestSetup_MissingConfigFile(t *testing.T) {
	isolate(t)
	root.SharedFlags = root.CommonFlags{ConfigFile: "does-not-exist.yaml"}

	assert.Error(t, root.Setup(&cobra.Command{Use: "test"}))
}
