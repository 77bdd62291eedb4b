package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// isolate points XDG and the working directory at fresh temp dirs so no
// real config file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestGlobalPath_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	require.Equal(t, "/custom/config/enrollr/enrollr.yml", GlobalPath())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, ".enrollr", cfg.DataDir)
	require.Equal(t, BackendFile, cfg.DraftBackend)
	require.Equal(t, "http://localhost:4001", cfg.API1)
	require.Equal(t, "http://localhost:4002", cfg.API2)
	require.Equal(t, 250*time.Millisecond, cfg.Debounce)
	require.Equal(t, 120*time.Millisecond, cfg.BlurGrace)
	require.Equal(t, 2*time.Second, cfg.AutosaveQuiet)
	require.Equal(t, 3*time.Second, cfg.SubmitLatency)
	require.Equal(t, 350*time.Millisecond, cfg.NavigateDelay)
	require.Equal(t, 1, cfg.MinChars)
	require.Equal(t, 10, cfg.DefaultLimit)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	dir := isolate(t)

	global := &Config{
		DataDir: "/global", LogLevel: "info", DraftBackend: BackendSQLite,
		API1: "http://global:1", API2: "http://global:2",
		Debounce: time.Second, MinChars: 2, DefaultLimit: 5,
	}
	require.NoError(t, WriteGlobal(global))

	project := "api1: http://project:1\ndebounce: 100ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectPath()), []byte(project), 0644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "http://project:1", cfg.API1)
	require.Equal(t, "http://global:2", cfg.API2)
	require.Equal(t, BackendSQLite, cfg.DraftBackend)
	require.Equal(t, 100*time.Millisecond, cfg.Debounce)
	require.Equal(t, 2, cfg.MinChars)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectPath()), []byte("draft_backend: sqlite\n"), 0644))
	t.Setenv("ENROLLR_DRAFT_BACKEND", "nats")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, BackendNATS, cfg.DraftBackend)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ENROLLR_DATA_DIR", "/from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--data-dir", "/from-flag"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	require.Equal(t, "/from-flag", cfg.DataDir)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("ENROLLR_DRAFT_BACKEND", "redis")

	_, err := Load(nil)
	require.ErrorContains(t, err, "unknown draft backend")
}
