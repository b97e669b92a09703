package reader

import "fmt"

// Every parse failure is fatal to the scan that produced it: the reader
// latches the first error and keeps returning it. The types below separate
// the failure classes a caller may want to distinguish; all of them name the
// record index and absolute byte offset at which parsing stopped.

// LexicalError reports an unexpected byte where a specific token was
// required: an opening quote, a colon, a delimiter, a literal character or a
// known escape.
type LexicalError struct {
	Record int
	Offset int64
	msg    string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("result %d (offset %d): %s", e.Record, e.Offset, e.msg)
}

// StructuralError reports a record whose shape violates the table contract:
// field order deviating from the inferred schema, or nesting beyond the
// single flatten level.
type StructuralError struct {
	Record int
	Offset int64
	msg    string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("result %d (offset %d): %s", e.Record, e.Offset, e.msg)
}

// NewStructuralError builds a StructuralError at the given position.
func NewStructuralError(record int, offset int64, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Record: record, Offset: offset, msg: fmt.Sprintf(format, args...)}
}

// ResourceError reports a failure to acquire a resource the scan needs,
// such as the input file.
type ResourceError struct {
	msg string
}

func (e *ResourceError) Error() string { return e.msg }

// TypeError reports a value whose token type cannot be materialized as
// requested, e.g. a string token in a metric column.
type TypeError struct {
	Column string
	msg    string
}

func (e *TypeError) Error() string { return e.msg }

// NewTypeError builds a TypeError for the named column.
func NewTypeError(column, format string, args ...interface{}) *TypeError {
	return &TypeError{Column: column, msg: fmt.Sprintf(format, args...)}
}
