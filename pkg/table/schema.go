// Package table exposes a Druid result file as a fixed-shape table: a
// schema inferred from the first record and a forward-only cursor over the
// records, with metric columns materialized as floating point.
package table

import (
	"fmt"
	"io"

	"github.com/bisegni/druidtab/pkg/reader"
)

// Column is one schema column: its name and whether it is a metric
// (numeric, exposed as REAL) column.
type Column struct {
	Name   string
	Metric bool
}

// Schema is the fixed, ordered column set inferred from the first record.
// It never changes for the lifetime of a table handle; every subsequent
// record is checked against this exact field order.
type Schema struct {
	Columns []Column
}

// NumColumns returns the number of columns.
func (s *Schema) NumColumns() int { return len(s.Columns) }

// SQLType returns the SQL column type the host should declare for column i:
// REAL for metric columns, TEXT for everything else.
func (s *Schema) SQLType(i int) string {
	if s.Columns[i].Metric {
		return "REAL"
	}
	return "TEXT"
}

// InferSchema discovers the table shape from the first record of the stream
// behind r. It runs two passes: one to count the fields, one to record the
// labels in first-seen order, rewinding in between. A column is marked as a
// metric iff its label is in metricNames (exact, case sensitive).
//
// It returns the schema and the offset at which a production scan should
// start. The reader is left rewound to the start of the stream; inference
// consumes the bytes it inspects, so the offset is recorded after the final
// rewind.
func InferSchema(r *reader.FieldReader, metricNames map[string]bool) (*Schema, int64, error) {
	// Pass 1: count the columns.
	nCol := 0
	for {
		outcome, err := r.ReadField()
		if err == io.EOF {
			if nCol == 0 {
				return nil, 0, fmt.Errorf("cannot infer a schema from an empty result file")
			}
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("schema inference: %w", err)
		}
		nCol++
		if outcome == reader.LastFieldOfRecord {
			break
		}
	}
	if err := r.Rewind(); err != nil {
		return nil, 0, err
	}

	// Pass 2: record the labels and classify them.
	s := &Schema{Columns: make([]Column, 0, nCol)}
	for i := 0; i < nCol; i++ {
		if _, err := r.ReadField(); err != nil {
			return nil, 0, fmt.Errorf("schema inference: %w", err)
		}
		name := r.Label()
		s.Columns = append(s.Columns, Column{Name: name, Metric: metricNames[name]})
	}
	if err := r.Rewind(); err != nil {
		return nil, 0, err
	}

	return s, r.Offset(), nil
}
