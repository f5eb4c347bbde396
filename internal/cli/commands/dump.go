package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/guansong/compiledb/pkg/compdb"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the database back out as compile_commands.json",
		Long: `Re-emit the loaded compilation database as a compile_commands.json
document, with every command in pre-tokenized "arguments" form.

Useful for normalizing a database whose entries mix "command" strings and
"arguments" vectors, or for converting a fixed-flags database consumer
pipeline to plain JSON. Output is always JSON regardless of -o.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd)
		},
	}
	return cmd
}

// dumpEntry is one compile_commands.json entry on the way out.
type dumpEntry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
}

func runDump(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dumpEntries(cmdCtx.DB))
}

func dumpEntries(db compdb.Database) []dumpEntry {
	entries := []dumpEntry{}
	for _, file := range db.GetAllFiles() {
		for _, c := range db.GetCompileCommands(file) {
			entries = append(entries, dumpEntry{
				Directory: c.Directory,
				File:      file,
				Arguments: c.Arguments,
			})
		}
	}
	return entries
}
