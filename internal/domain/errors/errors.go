package errors

import (
	"fmt"
	"strings"
)

// SourceError reports that the input file could not be opened or read.
// It wraps the underlying fs error, so errors.Is(err, fs.ErrNotExist)
// works for a missing source.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("cannot read source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ParseError represents input that is not valid delimited tabular text
type ParseError struct {
	Path   string // file being parsed
	Line   int    // 1-based line of the offending record (0 if unknown)
	Reason string // human-readable explanation (optional)
	Err    error  // underlying csv error (may be nil)
}

func (e *ParseError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("parse error in %s", e.Path))

	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, " - ")
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports that the destination could not be written or replaced
type WriteError struct {
	Path string
	Op   string // "create", "write", "sync", "rename", ...
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ColumnExistsError is returned when the index column is already present
// and the conflict policy forbids touching it
type ColumnExistsError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnExistsError) Error() string {
	return fmt.Sprintf("column '%s' already exists in '%s'", e.ColumnName, e.TableName)
}

// ColumnNotFoundError represents a reference to a column that is not in the header
type ColumnNotFoundError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found in '%s'", e.ColumnName, e.TableName)
}
