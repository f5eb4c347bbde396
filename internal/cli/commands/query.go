package commands

import (
	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/internal/cli/output"
	"github.com/guansong/compiledb/pkg/compdb"
	"github.com/guansong/compiledb/pkg/shellwords"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [file...]",
		Short: "Show the compile commands for one or more files",
		Long: `Look up the compiler invocations that build the given source files.

Paths are matched against the database after normalization, so redundant
separators and . components do not matter. A file with no entry produces
empty output, not an error.

With no arguments, query starts an interactive session with tab completion
over the files in the database.`,
		Example: `  # Commands for one file
  compiledb query src/main.c

  # Machine-readable output
  compiledb query -o json src/main.c

  # Interactive session
  compiledb query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runQueryREPL(cmd, cmdCtx)
			}
			return runQuery(cmdCtx, args)
		},
	}
	return cmd
}

func runQuery(cmdCtx *CommandContext, files []string) error {
	r := cmdCtx.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		results := make([]queryOutput, 0, len(files))
		for _, file := range files {
			results = append(results, queryOutput{
				File:     file,
				Commands: commandsJSON(cmdCtx.DB.GetCompileCommands(file)),
			})
		}
		return r.JSON(results)
	}

	for _, file := range files {
		printCommands(r, file, cmdCtx.DB.GetCompileCommands(file))
	}
	return nil
}

// queryOutput is the JSON output for one queried file.
type queryOutput struct {
	File     string          `json:"file"`
	Commands []commandOutput `json:"commands"`
}

// commandOutput is one compile command in JSON output. Command is the
// shell-escaped form of Arguments, for consumers that want a runnable line.
type commandOutput struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
	Command   string   `json:"command"`
}

func commandsJSON(commands []compdb.CompileCommand) []commandOutput {
	results := make([]commandOutput, 0, len(commands))
	for _, c := range commands {
		results = append(results, commandOutput{
			Directory: c.Directory,
			Arguments: c.Arguments,
			Command:   shellwords.Join(c.Arguments),
		})
	}
	return results
}

func printCommands(r *output.Renderer, file string, commands []compdb.CompileCommand) {
	styles := r.Styles()
	if len(commands) == 0 {
		r.Println(styles.Muted.Render("(no compile commands for " + file + ")"))
		return
	}
	for _, c := range commands {
		r.Println(styles.Muted.Render("# directory: " + c.Directory))
		r.Println(shellwords.Join(c.Arguments))
	}
}
