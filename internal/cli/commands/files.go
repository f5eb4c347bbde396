package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/internal/cli/output"
)

// NewFilesCommand creates the files command.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List every file in the compilation database",
		Long: `List the distinct source files the compilation database has entries for.

Files appear in database order. A fixed-flags database (compile_flags.txt)
has no file list and produces empty output.`,
		Example: `  # Table on a terminal, one path per line when piped
  compiledb files

  # Machine-readable output
  compiledb files -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFiles(cmd)
		},
	}
	return cmd
}

// filesOutput is the JSON output for the files command.
type filesOutput struct {
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
	Count     int      `json:"count"`
}

func runFiles(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	files := cmdCtx.DB.GetAllFiles()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(filesOutput{
			Directory: cmdCtx.Dir,
			Files:     orEmpty(files),
			Count:     len(files),
		})
	case output.ModeText:
		renderFilesTable(r, cmdCtx.Dir, files)
		return nil
	default:
		for _, file := range files {
			r.Println(file)
		}
		return nil
	}
}

func renderFilesTable(r *output.Renderer, dir string, files []string) {
	styles := r.Styles()
	r.Println(styles.Header1.Render("Compilation database"))
	r.Println(styles.Muted.Render(dir))
	r.Println("")

	if len(files) == 0 {
		r.Println("(0 files)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "File"})
	for i, file := range files {
		t.AppendRow(table.Row{i + 1, file})
	}
	t.Render()
	r.Printf("(%d files)\n", len(files))
}
