package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guansong/compiledb/internal/cli/config"
	"github.com/guansong/compiledb/pkg/compdb/jsondb"
)

func TestLoadConfigDefaults(t *testing.T) {
	config.ResetConfig()

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBuildDir, cfg.BuildDir)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
	assert.Empty(t, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, config.GetConfigFileUsed())
	assert.Same(t, cfg, config.GetCurrentConfig())
}

func TestLoadConfigFile(t *testing.T) {
	config.ResetConfig()
	path := filepath.Join(t.TempDir(), "compiledb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build_dir: /src/build\noutput: plain\n"), 0o644))

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/src/build", cfg.BuildDir)
	assert.Equal(t, "plain", cfg.Output)
	assert.Equal(t, path, config.GetConfigFileUsed())
}

func TestEnvOverridesFile(t *testing.T) {
	config.ResetConfig()
	path := filepath.Join(t.TempDir(), "compiledb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: plain\n"), 0o644))
	t.Setenv("COMPILEDB_OUTPUT", "json")

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
}

func TestFlagsOverrideEnv(t *testing.T) {
	config.ResetConfig()
	t.Setenv("COMPILEDB_BUILD_DIR", "/from/env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("build-dir", "p", "", "")
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Parse([]string{"--build-dir", "/from/flag", "-v"}))

	cfg, err := config.LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.BuildDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigRejectsBadOutput(t *testing.T) {
	config.ResetConfig()
	t.Setenv("COMPILEDB_OUTPUT", "yaml")

	_, err := config.LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output mode")
}

func TestValidateFormat(t *testing.T) {
	jsondb.Register()

	cfg := &config.Config{Format: "json", Output: "auto"}
	require.NoError(t, cfg.Validate())

	cfg.Format = "cmake"
	err := cfg.Validate()
	var formatErr *config.UnknownFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "cmake", formatErr.Format)
	assert.Contains(t, formatErr.Available, "json")
}
