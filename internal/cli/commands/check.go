package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/internal/cli/output"
	"github.com/guansong/compiledb/pkg/compdb"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the compilation database and report its shape",
		Long: `Load the compilation database and report whether it parses cleanly,
where it was found, and how many files and commands it holds.

Exits non-zero when no database is found or the document violates the
schema, so it works as a CI gate after regenerating the database.`,
		Example: `  # Human-readable report
  compiledb check

  # Machine-readable, e.g. for CI
  compiledb check -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd)
		},
	}
	return cmd
}

// CheckOutput is the JSON output for the check command.
type CheckOutput struct {
	Directory string `json:"directory,omitempty"`
	Files     int    `json:"files"`
	Commands  int    `json:"commands"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutDatabase(cmd)
	r := cmdCtx.Renderer

	var result CheckOutput
	db, dir, err := openDatabase(cmdCtx.Cfg)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Directory = dir
		result.Files = len(db.GetAllFiles())
		result.Commands = len(db.GetAllCompileCommands())
		result.OK = true
	}

	if r.EffectiveMode() == output.ModeJSON {
		if jsonErr := r.JSON(result); jsonErr != nil {
			return jsonErr
		}
	} else {
		renderCheckText(r, result, err)
	}

	if err != nil {
		return fmt.Errorf("compilation database check failed: %w", err)
	}
	return nil
}

func renderCheckText(r *output.Renderer, result CheckOutput, err error) {
	styles := r.Styles()

	if result.OK {
		r.Println(styles.Success.Render("ok") + " " + result.Directory)
		r.Printf("  files:    %d\n", result.Files)
		r.Printf("  commands: %d\n", result.Commands)
		return
	}

	var schemaErr *compdb.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		r.Println(styles.Error.Render("schema violation") + " " + schemaErr.Reason)
	case errors.Is(err, compdb.ErrInvalidDocument):
		r.Println(styles.Error.Render("invalid document") + " " + result.Error)
	default:
		r.Println(styles.Error.Render("no database") + " " + result.Error)
	}
}
