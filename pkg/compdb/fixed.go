package compdb

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FixedFlagsFile is the document the fixed loader reads: one compiler
// argument per line, blank lines and # comments skipped.
const FixedFlagsFile = "compile_flags.txt"

// FixedDatabase applies one fixed argument list to every file it is asked
// about. It is the fallback for source trees without a generated database.
type FixedDatabase struct {
	directory string
	args      []string
}

// NewFixedDatabase builds a fixed database running in directory with the
// given arguments.
func NewFixedDatabase(directory string, args []string) *FixedDatabase {
	return &FixedDatabase{directory: directory, args: slices.Clone(args)}
}

// GetCompileCommands returns the fixed invocation with filePath appended.
func (d *FixedDatabase) GetCompileCommands(filePath string) []CompileCommand {
	args := make([]string, 0, len(d.args)+1)
	args = append(args, d.args...)
	args = append(args, filePath)
	return []CompileCommand{{Directory: d.directory, Arguments: args}}
}

// GetAllFiles returns nil: a fixed database does not know which files exist.
func (d *FixedDatabase) GetAllFiles() []string {
	return nil
}

// GetAllCompileCommands returns nil for the same reason as GetAllFiles.
func (d *FixedDatabase) GetAllCompileCommands() []CompileCommand {
	return nil
}

var _ Database = (*FixedDatabase)(nil)

// FixedLoader loads a FixedDatabase from compile_flags.txt in a directory.
type FixedLoader struct{}

// LoadFromDirectory implements Loader.
func (FixedLoader) LoadFromDirectory(dir string) (Database, error) {
	data, err := os.ReadFile(filepath.Join(dir, FixedFlagsFile))
	if err != nil {
		return nil, fmt.Errorf("opening fixed compilation database: %w", err)
	}
	var args []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	return NewFixedDatabase(dir, args), nil
}

// RegisterFixed wires the fixed loader into the registry under the name
// "fixed". The host application calls this once at startup.
func RegisterFixed() {
	RegisterLoader("fixed", FixedLoader{})
}
