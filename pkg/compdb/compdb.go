// Package compdb defines compilation database types, the query interface
// consumed by build tooling, and the loader registry used to discover a
// database for a source tree.
package compdb

// CompileCommand is one compiler invocation for one source file: the working
// directory the command runs in and the full argument vector, compiler
// included.
type CompileCommand struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
}

// Database answers which compiler invocations build which source files.
//
// A Database is built once from a document, is immutable afterwards, and is
// therefore safe for concurrent reads without synchronization. Queries never
// fail: asking about a file the database does not know is a normal outcome
// and yields no commands.
type Database interface {
	// GetCompileCommands returns every command building filePath, in
	// document order. The query path is matched through the database's
	// path-equivalence index, so normalization differences between the
	// query and the stored form do not cause misses.
	GetCompileCommands(filePath string) []CompileCommand

	// GetAllFiles returns every distinct indexed file path in native form.
	GetAllFiles() []string

	// GetAllCompileCommands returns every command in the database,
	// grouped by file, per-file entries in document order.
	GetAllCompileCommands() []CompileCommand
}
