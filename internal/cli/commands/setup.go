package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/internal/cli/config"
	"github.com/guansong/compiledb/internal/cli/output"
	"github.com/guansong/compiledb/pkg/compdb"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer

	// DB and Dir are set by NewCommandContext: the loaded database and the
	// directory it was found in.
	DB  compdb.Database
	Dir string
}

// NewCommandContext creates a CommandContext with the compilation database
// loaded according to the configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutDatabase(cmd)
	db, dir, err := openDatabase(cmdCtx.Cfg)
	if err != nil {
		return nil, err
	}
	cmdCtx.DB = db
	cmdCtx.Dir = dir
	return cmdCtx, nil
}

// NewCommandContextWithoutDatabase creates a CommandContext without loading
// a database. Useful for commands that handle load failures themselves.
func NewCommandContextWithoutDatabase(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		BuildDir: getEnvOrDefault("COMPILEDB_BUILD_DIR", config.DefaultBuildDir),
		Format:   os.Getenv("COMPILEDB_FORMAT"),
		Output:   getEnvOrDefault("COMPILEDB_OUTPUT", config.DefaultOutput),
		Verbose:  os.Getenv("COMPILEDB_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openDatabase loads the compilation database the configuration points at.
// A forced format probes the build directory only; autodetection also walks
// up through its parents.
func openDatabase(cfg *config.Config) (compdb.Database, string, error) {
	if cfg.Format != "" {
		loader, ok := compdb.GetLoader(cfg.Format)
		if !ok {
			return nil, "", &config.UnknownFormatError{Format: cfg.Format, Available: compdb.ListLoaders()}
		}
		db, err := loader.LoadFromDirectory(cfg.BuildDir)
		if err != nil {
			return nil, "", err
		}
		return db, cfg.BuildDir, nil
	}
	return compdb.Autodetect(cfg.BuildDir)
}

// orEmpty keeps JSON output stable: a nil slice encodes as [] rather than
// null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
