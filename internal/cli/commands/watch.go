package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/pkg/compdb"
	"github.com/guansong/compiledb/pkg/compdb/jsondb"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate the compilation database whenever it changes",
		Long: `Watch the directory holding the compilation database and reload it on
every change to compile_commands.json or compile_flags.txt, logging whether
the new document is valid.

Handy while hacking on a build-system generator: keep watch running and see
schema violations the moment the database is rewritten. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutDatabase(cmd)
	logger := cmdCtx.Logger

	// The directory is watched rather than the file: most generators and
	// editors replace the file, which would drop a file-level watch.
	dir := cmdCtx.Cfg.BuildDir
	db, foundDir, err := openDatabase(cmdCtx.Cfg)
	if err != nil {
		logger.Warn("no valid database yet", "dir", dir, "error", err)
	} else {
		dir = foundDir
		logger.Info("database loaded", "dir", dir, "files", len(db.GetAllFiles()))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for database changes", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDatabaseFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Remove) {
				logger.Warn("database removed", "path", event.Name)
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			reloadDatabase(cmdCtx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

// isDatabaseFile reports whether path names a document some registered
// loader would read.
func isDatabaseFile(path string) bool {
	base := filepath.Base(path)
	return base == jsondb.DatabaseFile || base == compdb.FixedFlagsFile
}

func reloadDatabase(cmdCtx *CommandContext, event fsnotify.Event) {
	logger := cmdCtx.Logger
	db, dir, err := openDatabase(cmdCtx.Cfg)
	if err != nil {
		logger.Error("database invalid after change", "path", event.Name, "op", event.Op.String(), "error", err)
		return
	}
	logger.Info("database reloaded", "dir", dir, "files", len(db.GetAllFiles()), "commands", len(db.GetAllCompileCommands()))
}
