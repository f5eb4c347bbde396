// Package jsondb loads Clang-style JSON compilation databases
// (compile_commands.json) and answers file-to-command queries over them.
//
// The document is one array of objects, each naming the working directory, a
// source file, and either a pre-tokenized "arguments" vector or a single
// shell-escaped "command" string:
//
//	[{"directory": "/src", "file": "main.c", "arguments": ["cc", "-c", "main.c"]}]
//
// JSON being a subset of YAML, the document is parsed with the YAML node API
// and validated by walking the resulting sequence/mapping/scalar tree.
package jsondb

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/guansong/compiledb/pkg/compdb"
	"github.com/guansong/compiledb/pkg/pathtrie"
	"github.com/guansong/compiledb/pkg/shellwords"
)

// DatabaseFile is the document name probed by the loader.
const DatabaseFile = "compile_commands.json"

// Database is an immutable in-memory JSON compilation database.
type Database struct {
	// byFile maps normalized file paths to their entries in document order.
	// A file may legally carry several entries, e.g. one per build target.
	byFile map[string][]entryRef

	// fileOrder holds the distinct byFile keys in first-insertion order so
	// enumeration is deterministic.
	fileOrder []string

	// index resolves query paths to byFile keys. It holds exactly the key
	// set of byFile.
	index *pathtrie.Trie
}

var _ compdb.Database = (*Database)(nil)

// entryRef is the indexed form of one document entry. The argument vector is
// shared until a query materializes it into a CompileCommand.
type entryRef struct {
	directory string
	arguments []string
}

// LoadFromFile reads and parses the database at path.
func LoadFromFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening compilation database: %w", err)
	}
	return LoadFromBuffer(data)
}

// LoadFromBuffer parses a compilation database document. The returned
// Database owns copies of everything it keeps; data may be reused or
// discarded afterwards. Loading is all-or-nothing: the first schema
// violation fails the whole load.
func LoadFromBuffer(data []byte) (*Database, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", compdb.ErrInvalidDocument, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, compdb.ErrInvalidDocument
	}
	db := &Database{
		byFile: make(map[string][]entryRef),
		index:  pathtrie.New(),
	}
	if err := db.parse(doc.Content[0]); err != nil {
		return nil, err
	}
	return db, nil
}

// GetCompileCommands returns the commands building filePath, in document
// order, empty when the file is unknown.
func (db *Database) GetCompileCommands(filePath string) []compdb.CompileCommand {
	match, ok := db.index.FindEquivalent(nativePath(filePath))
	if !ok {
		return nil
	}
	return materialize(db.byFile[match], nil)
}

// GetAllFiles returns every distinct indexed file path.
func (db *Database) GetAllFiles() []string {
	return slices.Clone(db.fileOrder)
}

// GetAllCompileCommands returns every command in the database, grouped by
// file, per-file entries in document order.
func (db *Database) GetAllCompileCommands() []compdb.CompileCommand {
	var commands []compdb.CompileCommand
	for _, path := range db.fileOrder {
		commands = materialize(db.byFile[path], commands)
	}
	return commands
}

func (db *Database) parse(root *yaml.Node) error {
	if root.Kind != yaml.SequenceNode {
		return &compdb.SchemaError{Reason: "expected array"}
	}
	for _, obj := range root.Content {
		if err := db.parseEntry(obj); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) parseEntry(obj *yaml.Node) error {
	if obj.Kind != yaml.MappingNode {
		return &compdb.SchemaError{Reason: "expected object"}
	}
	var (
		directory, file              string
		haveDirectory, haveFile      bool
		arguments, command           []string
		argumentsFound, commandFound bool
	)
	for i := 0; i+1 < len(obj.Content); i += 2 {
		key, value := obj.Content[i], obj.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return &compdb.SchemaError{Reason: "expected string as key"}
		}
		switch key.Value {
		case "directory":
			if value.Kind != yaml.ScalarNode {
				return &compdb.SchemaError{Reason: `expected string as value of "directory"`}
			}
			directory = value.Value
			haveDirectory = true
		case "file":
			if value.Kind != yaml.ScalarNode {
				return &compdb.SchemaError{Reason: `expected string as value of "file"`}
			}
			file = value.Value
			haveFile = true
		case "arguments":
			if value.Kind != yaml.SequenceNode {
				return &compdb.SchemaError{Reason: `expected array as value of "arguments"`}
			}
			args := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return &compdb.SchemaError{Reason: `expected string in "arguments"`}
				}
				args = append(args, item.Value)
			}
			arguments = args
			argumentsFound = true
		case "command":
			if value.Kind != yaml.ScalarNode {
				return &compdb.SchemaError{Reason: `expected string as value of "command"`}
			}
			command = shellwords.Split(value.Value)
			commandFound = true
		default:
			return &compdb.SchemaError{Reason: fmt.Sprintf("unknown key: %q", key.Value)}
		}
	}
	switch {
	case !haveFile:
		return &compdb.SchemaError{Reason: `missing key: "file"`}
	case !haveDirectory:
		return &compdb.SchemaError{Reason: `missing key: "directory"`}
	case !argumentsFound && !commandFound:
		return &compdb.SchemaError{Reason: `missing key: "command" or "arguments"`}
	case argumentsFound && commandFound:
		return &compdb.SchemaError{Reason: `keys "command" and "arguments" are mutually exclusive`}
	}
	invocation := arguments
	if commandFound {
		invocation = command
	}
	db.insert(directory, file, invocation)
	return nil
}

// insert resolves a relative file against its directory, normalizes the
// result, and records the entry under that key.
func (db *Database) insert(directory, file string, arguments []string) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(directory, path)
	}
	path = nativePath(path)
	if _, seen := db.byFile[path]; !seen {
		db.fileOrder = append(db.fileOrder, path)
	}
	db.byFile[path] = append(db.byFile[path], entryRef{directory: directory, arguments: arguments})
	db.index.Insert(path)
}

// materialize expands entry refs into CompileCommands, copying each argument
// vector so callers cannot mutate indexed state.
func materialize(refs []entryRef, out []compdb.CompileCommand) []compdb.CompileCommand {
	for _, ref := range refs {
		out = append(out, compdb.CompileCommand{
			Directory: ref.directory,
			Arguments: slices.Clone(ref.arguments),
		})
	}
	return out
}

// nativePath rewrites p into the platform-native cleaned form used as the
// index key.
func nativePath(p string) string {
	return filepath.Clean(filepath.FromSlash(p))
}

// Loader loads compile_commands.json databases.
type Loader struct{}

// LoadFromDirectory implements compdb.Loader.
func (Loader) LoadFromDirectory(dir string) (compdb.Database, error) {
	return LoadFromFile(filepath.Join(dir, DatabaseFile))
}

// Register wires the JSON loader into the compdb loader registry under the
// name "json". The host application calls this once at startup.
func Register() {
	compdb.RegisterLoader("json", Loader{})
}
