package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	work := filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(work, 0750))
	chdir(t, work)

	t.Setenv("MIAMALA_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("MIAMALA_DOTENV_PROBE"))
	t.Setenv("MIAMALA_DOTENV_KEEP", "from-env")

	// no .env anywhere yet
	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "", loaded)

	// parent directory is searched
	content := "MIAMALA_DOTENV_PROBE=from-dotenv\nMIAMALA_DOTENV_KEEP=from-dotenv\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0600))

	loaded, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", ".env"), loaded)
	assert.Equal(t, "from-dotenv", os.Getenv("MIAMALA_DOTENV_PROBE"))
	assert.Equal(t, "from-env", os.Getenv("MIAMALA_DOTENV_KEEP"), "existing variables win")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MIAMALA_GETENV_SET", "value")
	assert.Equal(t, "value", GetEnv("MIAMALA_GETENV_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MIAMALA_GETENV_SURELY_UNSET", "fallback"))
}
