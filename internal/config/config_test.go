package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	boarderrors "boardkit.dev/boardkit/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".boardkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults when no file exists", func(t *testing.T) {
		cfg, err := Load(LoadOptions{Dir: t.TempDir()})
		require.NoError(t, err)

		require.Equal(t, "az", cfg.Backend)
		require.False(t, cfg.Debug)
		require.Equal(t, "yaml", cfg.Manifest.Backend)
		require.Equal(t, "created_items.yaml", cfg.Manifest.Path)
		require.Equal(t, FlushEnd, cfg.Manifest.Flush)
		require.False(t, cfg.FlushEachRecord())
		require.Equal(t, "boardkit.log", cfg.Log.File)
		require.Equal(t, "az", cfg.Azure.Command)
		require.Equal(t, 5*time.Minute, cfg.Azure.Timeout)
		require.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
		require.Empty(t, cfg.File)
	})

	t.Run("reads .boardkit.yaml from the directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, `backend: github
manifest:
  backend: sqlite
  flush: each
azure:
  timeout: 30s
github:
  owner: acme
  repo: boards
`)

		cfg, err := Load(LoadOptions{Dir: dir})
		require.NoError(t, err)
		require.Equal(t, "github", cfg.Backend)
		require.Equal(t, "sqlite", cfg.Manifest.Backend)
		require.Equal(t, "created_items.db", cfg.Manifest.Path)
		require.True(t, cfg.FlushEachRecord())
		require.Equal(t, 30*time.Second, cfg.Azure.Timeout)
		require.Equal(t, "acme", cfg.GitHub.Owner)
		require.Equal(t, path, cfg.File)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "azure:\n  project: FromFile\n")
		t.Setenv("BOARDKIT_AZURE_PROJECT", "FromEnv")

		cfg, err := Load(LoadOptions{Dir: dir})
		require.NoError(t, err)
		require.Equal(t, "FromEnv", cfg.Azure.Project)
	})

	t.Run("set flags override environment and file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "manifest:\n  path: file.yaml\n")
		t.Setenv("BOARDKIT_DEBUG", "false")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Bool("debug", false, "")
		flags.String("manifest", "", "")
		flags.String("backend", "", "")
		require.NoError(t, flags.Parse([]string{"--debug", "--manifest", "flag.yaml"}))

		cfg, err := Load(LoadOptions{Dir: dir, Flags: flags})
		require.NoError(t, err)
		require.True(t, cfg.Debug)
		require.Equal(t, "flag.yaml", cfg.Manifest.Path)
		require.Equal(t, "az", cfg.Backend)
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
		require.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "backend: jira\n")
		_, err := Load(LoadOptions{Dir: dir})
		require.ErrorIs(t, err, boarderrors.ErrUnknownBackend)

		dir = t.TempDir()
		writeConfig(t, dir, "manifest:\n  flush: sometimes\n")
		_, err = Load(LoadOptions{Dir: dir})
		require.Error(t, err)

		dir = t.TempDir()
		writeConfig(t, dir, "manifest:\n  backend: postgres\n")
		_, err = Load(LoadOptions{Dir: dir})
		require.Error(t, err)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "backend: [unclosed\n")
		_, err := Load(LoadOptions{Dir: dir})
		require.Error(t, err)
	})
}

func TestGitHubToken(t *testing.T) {
	t.Setenv("BOARDKIT_TEST_TOKEN", "secret")
	require.Equal(t, "secret", GitHubConfig{TokenEnv: "BOARDKIT_TEST_TOKEN"}.Token())
}
