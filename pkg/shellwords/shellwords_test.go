package shellwords_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guansong/compiledb/pkg/shellwords"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"single token", "cc", []string{"cc"}},
		{"free tokens", "cc -c main.c", []string{"cc", "-c", "main.c"}},
		{"repeated spaces", "  cc   -c  main.c ", []string{"cc", "-c", "main.c"}},
		{"double quoted space", `"a b"`, []string{"a b"}},
		{"single quotes disable escaping", `'a\nb'`, []string{`a\nb`}},
		{"escaped space does not split", `a\ b`, []string{"a b"}},
		{"fragment concatenation", `foo"bar"baz`, []string{"foobarbaz"}},
		{"mixed fragments", `a"b"'c'd`, []string{"abcd"}},
		{"escaped quote in double quotes", `"a\"b"`, []string{`a"b`}},
		{"escaped backslash in double quotes", `"a\\b"`, []string{`a\b`}},
		{"empty quoted argument", `""`, []string{""}},
		{"quoted include path", `cc "-I/path with space" -c x.c`, []string{"cc", "-I/path with space", "-c", "x.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shellwords.Split(tt.command))
		})
	}
}

// Input ending inside a quote or mid-escape truncates the last token instead
// of failing. This reproduces the reference loader's best-effort behavior;
// the trade-off is recorded in DESIGN.md.
func TestSplitTruncatesMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"unterminated double quote", `cc "abc`, []string{"cc", "abc"}},
		{"unterminated single quote", `cc 'abc`, []string{"cc", "abc"}},
		{"trailing escape", `cc abc\`, []string{"cc", "abc"}},
		{"trailing escape inside quotes", `"abc\`, []string{"abc"}},
		{"lone quote", `"`, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shellwords.Split(tt.command))
		})
	}
}

// Free tokens without quoting metacharacters round-trip through a plain
// space join.
func TestSplitRoundTripFreeTokens(t *testing.T) {
	tokens := []string{"cc", "-c", "-O2", "main.c", "-o", "main.o"}
	assert.Equal(t, tokens, shellwords.Split(strings.Join(tokens, " ")))
}

func TestJoinRoundTrip(t *testing.T) {
	tests := [][]string{
		{"cc", "-c", "main.c"},
		{"cc", "-I/path with space", `-DX="y"`},
		{"cc", `back\slash`, ""},
		{"clang++", "-std=c++17", "-o", "a b.o"},
		{"sh", "-c", "echo 'hi there'"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			assert.Equal(t, args, shellwords.Split(shellwords.Join(args)))
		})
	}
}

func TestJoinPlainArgsUnquoted(t *testing.T) {
	assert.Equal(t, "cc -c main.c", shellwords.Join([]string{"cc", "-c", "main.c"}))
}
