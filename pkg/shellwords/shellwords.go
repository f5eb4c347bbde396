// Package shellwords splits POSIX-style escaped command lines into argument
// vectors, matching the unescaping rules Clang tooling applies to the
// "command" field of a compilation database.
package shellwords

import "strings"

// Split tokenizes a shell-escaped command line into its arguments.
//
// Tokens are separated by runs of spaces. Within a token, double-quoted,
// single-quoted and unquoted fragments concatenate: `a"b"c` yields `abc`.
// A backslash escapes the next character in double-quoted and unquoted
// fragments; single quotes take everything up to the closing quote literally.
//
// Split never fails. Input that ends inside a quote or mid-escape yields the
// token accumulated so far; see the package tests for the exact behavior.
func Split(command string) []string {
	s := scanner{input: command}
	var argv []string
	for s.skipSpaces() {
		argv = append(argv, s.scanToken())
	}
	return argv
}

// Join renders an argument vector as a single command line such that
// Split(Join(args)) reproduces args. Arguments containing spaces, quotes or
// backslashes are double-quoted with backslash escapes.
func Join(args []string) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quote(arg))
	}
	return b.String()
}

func quote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, ` "'\`) {
		return arg
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		if arg[i] == '"' || arg[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(arg[i])
	}
	b.WriteByte('"')
	return b.String()
}

type scanner struct {
	input string
	pos   int
}

// skipSpaces advances past token separators and reports whether another
// token follows.
func (s *scanner) skipSpaces() bool {
	for s.pos < len(s.input) && s.input[s.pos] == ' ' {
		s.pos++
	}
	return s.pos < len(s.input)
}

// scanToken consumes one token built from quoted and unquoted fragments.
func (s *scanner) scanToken() string {
	var b strings.Builder
	for s.pos < len(s.input) && s.input[s.pos] != ' ' {
		switch s.input[s.pos] {
		case '"':
			s.scanDoubleQuoted(&b)
		case '\'':
			s.scanSingleQuoted(&b)
		default:
			s.scanFree(&b)
		}
	}
	return b.String()
}

// scanDoubleQuoted consumes a "..." fragment. A backslash escapes the next
// character; the escaped character is kept literally.
func (s *scanner) scanDoubleQuoted(b *strings.Builder) {
	s.pos++ // opening quote
	for s.pos < len(s.input) && s.input[s.pos] != '"' {
		if s.input[s.pos] == '\\' {
			s.pos++
			if s.pos >= len(s.input) {
				return
			}
		}
		b.WriteByte(s.input[s.pos])
		s.pos++
	}
	if s.pos < len(s.input) {
		s.pos++ // closing quote
	}
}

// scanSingleQuoted consumes a '...' fragment. No escaping applies.
func (s *scanner) scanSingleQuoted(b *strings.Builder) {
	s.pos++ // opening quote
	for s.pos < len(s.input) && s.input[s.pos] != '\'' {
		b.WriteByte(s.input[s.pos])
		s.pos++
	}
	if s.pos < len(s.input) {
		s.pos++ // closing quote
	}
}

// scanFree consumes an unquoted fragment, ending at a space or at a quote
// that starts the next fragment of the same token.
func (s *scanner) scanFree(b *strings.Builder) {
	for s.pos < len(s.input) {
		switch s.input[s.pos] {
		case ' ', '"', '\'':
			return
		case '\\':
			s.pos++
			if s.pos >= len(s.input) {
				return
			}
		}
		b.WriteByte(s.input[s.pos])
		s.pos++
	}
}
