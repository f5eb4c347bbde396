package compdb

import "errors"

// ErrInvalidDocument reports that database text could not be parsed into a
// document tree at all.
var ErrInvalidDocument = errors.New("invalid compilation database document")

// ErrNotFound reports that no registered loader found a database.
var ErrNotFound = errors.New("no compilation database found")

// SchemaError reports a structural violation in an otherwise well-formed
// document: a wrong node kind, a missing or unknown key, or conflicting
// keys. The first violation aborts the whole load; no partial database is
// ever returned.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return e.Reason
}
