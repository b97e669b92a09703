package table

import (
	"github.com/bisegni/druidtab/pkg/reader"
)

// Table is an open Druid result file with an inferred schema. The handle
// itself holds no reader state; each Cursor call opens an independent scan
// over the file, so inference and production scans never share state.
type Table struct {
	path      string
	schema    *Schema
	dataStart int64
}

// Open infers the schema of the result file at path and returns a table
// handle. metrics lists the column names to expose as floating-point; all
// other columns are text.
func Open(path string, metrics []string) (*Table, error) {
	r, err := reader.OpenFieldReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	set := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		set[m] = true
	}
	schema, start, err := InferSchema(r, set)
	if err != nil {
		return nil, err
	}
	return &Table{path: path, schema: schema, dataStart: start}, nil
}

// Path returns the file the table reads from.
func (t *Table) Path() string { return t.path }

// Schema returns the inferred schema.
func (t *Table) Schema() *Schema { return t.schema }

// Cursor opens a new scan over the table, positioned before the first
// record. Cursors are independent: each owns its own reader and source.
func (t *Table) Cursor() (*Cursor, error) {
	r, err := reader.OpenFieldReader(t.path)
	if err != nil {
		return nil, err
	}
	return newCursor(t.schema, r), nil
}
