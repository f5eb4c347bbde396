package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/pkg/compdb"
)

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "compiledb> ",
		HistoryFile:     filepath.Join(os.TempDir(), "compiledb_history"),
		AutoComplete:    newFileCompleter(cmdCtx.DB),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Compilation database REPL (%s)\n", cmdCtx.Dir)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type a file path, .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if line == ".quit" || line == ".exit" {
				break
			}
			handleDotCommand(cmd, cmdCtx, line)
			continue
		}

		printCommands(r, line, cmdCtx.DB.GetCompileCommands(line))
	}

	return nil
}

func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, line string) {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".files":
		files := cmdCtx.DB.GetAllFiles()
		for _, file := range files {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), file)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d files)\n", len(files))

	case ".dir":
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmdCtx.Dir)

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .files          List every file in the database
  .dir            Show where the database was found
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Type any file path to see its compile commands
  - Tab completion works for file paths
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newFileCompleter creates a readline completer over the database's files.
func newFileCompleter(db compdb.Database) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, file := range db.GetAllFiles() {
		items = append(items, readline.PcItem(file))
	}

	// Add dot-commands
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".files"),
		readline.PcItem(".dir"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
