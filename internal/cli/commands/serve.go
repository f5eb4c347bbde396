package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/guansong/compiledb/pkg/compdb"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compilation database over HTTP",
		Long: `Expose the loaded compilation database through a small JSON API:

  GET /healthz                   liveness and database location
  GET /api/files                 every file in the database
  GET /api/commands              every compile command
  GET /api/commands?file=<path>  commands for one file

The database is loaded once at startup; restart (or use watch) to pick up
changes. Shuts down cleanly on SIGINT or SIGTERM.`,
		Example: `  compiledb serve
  compiledb serve --addr :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:7133", "listen address")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	logger := cmdCtx.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           newServeHandler(cmdCtx.DB, cmdCtx.Dir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving compilation database", "addr", opts.Addr, "dir", cmdCtx.Dir)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newServeHandler(db compdb.Database, dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "directory": dir})
	})

	r.Get("/api/files", func(w http.ResponseWriter, _ *http.Request) {
		files := db.GetAllFiles()
		writeJSON(w, http.StatusOK, filesOutput{
			Directory: dir,
			Files:     orEmpty(files),
			Count:     len(files),
		})
	})

	r.Get("/api/commands", func(w http.ResponseWriter, req *http.Request) {
		file := req.URL.Query().Get("file")
		if file == "" {
			writeJSON(w, http.StatusOK, commandsJSON(db.GetAllCompileCommands()))
			return
		}
		writeJSON(w, http.StatusOK, queryOutput{
			File:     file,
			Commands: commandsJSON(db.GetCompileCommands(file)),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
