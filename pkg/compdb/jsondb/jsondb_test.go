package jsondb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guansong/compiledb/pkg/compdb"
	"github.com/guansong/compiledb/pkg/compdb/jsondb"
)

func load(t *testing.T, doc string) *jsondb.Database {
	t.Helper()
	db, err := jsondb.LoadFromBuffer([]byte(doc))
	require.NoError(t, err)
	return db
}

func TestLoadArgumentsEntry(t *testing.T) {
	db := load(t, `[{"directory":"/p","file":"a.c","arguments":["cc","-c","a.c"]}]`)

	files := db.GetAllFiles()
	require.Len(t, files, 1)
	want := filepath.FromSlash("/p/a.c")
	assert.Equal(t, want, files[0])

	commands := db.GetCompileCommands(want)
	require.Len(t, commands, 1)
	assert.Equal(t, "/p", commands[0].Directory)
	assert.Equal(t, []string{"cc", "-c", "a.c"}, commands[0].Arguments)
}

func TestLoadCommandEntryTokenizes(t *testing.T) {
	db := load(t, `[{"directory":"/p","file":"a.c","command":"cc -DX=\"a b\" -c a.c"}]`)

	commands := db.GetCompileCommands(filepath.FromSlash("/p/a.c"))
	require.Len(t, commands, 1)
	assert.Equal(t, []string{"cc", `-DX=a b`, "-c", "a.c"}, commands[0].Arguments)
}

func TestRelativeFileResolvedAgainstDirectory(t *testing.T) {
	db := load(t, `[{"directory":"/a/b","file":"c.cpp","command":"cc -c c.cpp"}]`)

	want := filepath.FromSlash("/a/b/c.cpp")
	assert.Equal(t, []string{want}, db.GetAllFiles())

	commands := db.GetCompileCommands(want)
	require.Len(t, commands, 1)
	assert.Equal(t, "/a/b", commands[0].Directory)
}

func TestAbsoluteFileKeptAsIs(t *testing.T) {
	db := load(t, `[{"directory":"/a/b","file":"/other/c.cpp","arguments":["cc","-c","/other/c.cpp"]}]`)

	want := filepath.FromSlash("/other/c.cpp")
	if !filepath.IsAbs(want) {
		t.Skip("no absolute slash paths on this platform")
	}
	assert.Equal(t, []string{want}, db.GetAllFiles())
}

func TestQueryPathNormalized(t *testing.T) {
	db := load(t, `[{"directory":"/a/b","file":"c.cpp","arguments":["cc"]}]`)

	commands := db.GetCompileCommands(filepath.FromSlash("/a//b/./c.cpp"))
	require.Len(t, commands, 1)
}

// A file compiled several times, e.g. once per target, keeps every entry in
// document order.
func TestMultipleEntriesPerFile(t *testing.T) {
	db := load(t, `[
		{"directory":"/p","file":"a.c","command":"cc -DA -c a.c"},
		{"directory":"/p","file":"a.c","command":"cc -DB -c a.c"}
	]`)

	commands := db.GetCompileCommands(filepath.FromSlash("/p/a.c"))
	require.Len(t, commands, 2)
	assert.Equal(t, []string{"cc", "-DA", "-c", "a.c"}, commands[0].Arguments)
	assert.Equal(t, []string{"cc", "-DB", "-c", "a.c"}, commands[1].Arguments)

	assert.Len(t, db.GetAllFiles(), 1)
}

func TestMissingFileQueryIsEmptyNotError(t *testing.T) {
	db := load(t, `[{"directory":"/p","file":"a.c","arguments":["cc"]}]`)

	assert.Empty(t, db.GetCompileCommands(filepath.FromSlash("/nonexistent")))
	assert.Empty(t, db.GetCompileCommands(""))
}

func TestGetAllCompileCommandsConcatenates(t *testing.T) {
	db := load(t, `[
		{"directory":"/p","file":"a.c","arguments":["cc","-c","a.c"]},
		{"directory":"/p","file":"b.c","arguments":["cc","-c","b.c"]},
		{"directory":"/p","file":"a.c","arguments":["cc","-DX","-c","a.c"]}
	]`)

	commands := db.GetAllCompileCommands()
	require.Len(t, commands, 3)
	// Grouped by file in first-insertion order, document order within a file.
	assert.Equal(t, []string{"cc", "-c", "a.c"}, commands[0].Arguments)
	assert.Equal(t, []string{"cc", "-DX", "-c", "a.c"}, commands[1].Arguments)
	assert.Equal(t, []string{"cc", "-c", "b.c"}, commands[2].Arguments)
}

// Mutating a query result must not leak into the database.
func TestResultsAreCopies(t *testing.T) {
	db := load(t, `[{"directory":"/p","file":"a.c","arguments":["cc","-c","a.c"]}]`)
	path := filepath.FromSlash("/p/a.c")

	first := db.GetCompileCommands(path)
	first[0].Arguments[0] = "mutated"

	second := db.GetCompileCommands(path)
	assert.Equal(t, "cc", second[0].Arguments[0])
}

func TestSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		reason string
	}{
		{"root not array", `{"directory":"/p"}`, "expected array"},
		{"entry not object", `[42]`, "expected object"},
		{"unknown key", `[{"directory":"/p","file":"a.c","arguments":["cc"],"output":"a.o"}]`, `unknown key: "output"`},
		{"missing file", `[{"directory":"/p","arguments":["cc"]}]`, `missing key: "file"`},
		{"missing directory", `[{"file":"a.c","arguments":["cc"]}]`, `missing key: "directory"`},
		{"missing invocation", `[{"directory":"/p","file":"a.c"}]`, `missing key: "command" or "arguments"`},
		{"command and arguments", `[{"directory":"/p","file":"a.c","command":"cc","arguments":["cc"]}]`, "mutually exclusive"},
		{"arguments not array", `[{"directory":"/p","file":"a.c","arguments":"cc -c a.c"}]`, `expected array as value of "arguments"`},
		{"arguments element not scalar", `[{"directory":"/p","file":"a.c","arguments":[["cc"]]}]`, `expected string in "arguments"`},
		{"directory not scalar", `[{"directory":["x"],"file":"a.c","arguments":["cc"]}]`, `expected string as value of "directory"`},
		{"file not scalar", `[{"directory":"/p","file":{},"arguments":["cc"]}]`, `expected string as value of "file"`},
		{"command not scalar", `[{"directory":"/p","file":"a.c","command":["cc"]}]`, `expected string as value of "command"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jsondb.LoadFromBuffer([]byte(tt.doc))
			require.Error(t, err)
			var schemaErr *compdb.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Contains(t, schemaErr.Error(), tt.reason)
		})
	}
}

// One bad entry fails the whole load, no matter how many good entries
// precede it.
func TestLoadIsAllOrNothing(t *testing.T) {
	doc := `[
		{"directory":"/p","file":"a.c","arguments":["cc"]},
		{"directory":"/p","file":"b.c"}
	]`
	db, err := jsondb.LoadFromBuffer([]byte(doc))
	require.Error(t, err)
	assert.Nil(t, db)
}

func TestInvalidDocument(t *testing.T) {
	for _, doc := range []string{"", "[", `[{"a":`} {
		_, err := jsondb.LoadFromBuffer([]byte(doc))
		require.Error(t, err, "doc %q", doc)
		assert.ErrorIs(t, err, compdb.ErrInvalidDocument, "doc %q", doc)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, jsondb.DatabaseFile)
	doc := `[{"directory":"/p","file":"a.c","arguments":["cc","-c","a.c"]}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	db, err := jsondb.LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, db.GetAllFiles(), 1)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := jsondb.LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "opening compilation database")
}

func TestLoaderFromDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"directory":"/p","file":"a.c","arguments":["cc","-c","a.c"]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsondb.DatabaseFile), []byte(doc), 0o644))

	db, err := jsondb.Loader{}.LoadFromDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, db.GetAllFiles(), 1)
}
