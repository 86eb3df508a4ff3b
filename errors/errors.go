package errors

import "fmt"

// SchemaError reports a column-level problem with a load: a required
// column missing from an export, or files within one directory that do
// not share a column set. It carries enough context for the caller to
// name the offending file and column.
type SchemaError struct {
	File   string
	Column string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("schema error: %v (column %q)", e.Err, e.Column)
	}
	return fmt.Sprintf("schema error in %s: %v (column %q)", e.File, e.Err, e.Column)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// RowError reports a value-level problem at a specific row of a merged
// table, for schemas that treat malformed values as fatal.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v (value %q)", e.Row, e.Column, e.Err, e.Value)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrNoData            = fmt.Errorf("no rows loaded for either period")
	ErrMissingColumn     = fmt.Errorf("required column missing")
	ErrColumnMismatch    = fmt.Errorf("column set differs between files")
	ErrInvalidDate       = fmt.Errorf("invalid date")
	ErrInvalidHour       = fmt.Errorf("invalid hour label")
	ErrInvalidNumber     = fmt.Errorf("invalid number")
	ErrInvalidPercentage = fmt.Errorf("invalid percentage")
	ErrUnknownDashboard  = fmt.Errorf("unknown dashboard")
)
