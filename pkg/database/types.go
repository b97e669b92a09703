package database

// Row represents a single record of a table, with metric columns already
// materialized (float64 or nil) and text columns as strings.
type Row interface {
	// Get returns the value of a column by name.
	Get(field string) (interface{}, error)
	// Primitive returns the underlying data structure.
	Primitive() interface{}
}

// RowIterator allows iterating over rows in a table.
type RowIterator interface {
	// Next advances the iterator. Returns false if no more rows or error.
	Next() bool
	// Row returns the current row.
	Row() Row
	// Error returns any error that occurred during iteration.
	Error() error
	// Close releases resources.
	Close() error
}

// Table represents a dataset that can be scanned.
type Table interface {
	// Columns returns the column names in table order.
	Columns() []string
	// Iterate returns a new iterator for scanning the table.
	Iterate() (RowIterator, error)
}
