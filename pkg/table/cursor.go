package table

import (
	"io"
	"strconv"

	"github.com/bisegni/druidtab/pkg/reader"
)

// Cursor assembles records into rows of the table's shape. Row buffers are
// reused from record to record; a value returned by Column is only valid
// until the next call to Next.
type Cursor struct {
	schema *Schema
	rdr    *reader.FieldReader

	vals   [][]byte
	types  []reader.JSONType
	absent []bool
	rowID  int64
}

func newCursor(schema *Schema, rdr *reader.FieldReader) *Cursor {
	n := schema.NumColumns()
	return &Cursor{
		schema: schema,
		rdr:    rdr,
		vals:   make([][]byte, n),
		types:  make([]reader.JSONType, n),
		absent: make([]bool, n),
		rowID:  -1,
	}
}

// NewCursor opens a scan over src using an already-inferred schema. Most
// callers go through Table.Cursor; this entry point exists for scans over
// in-memory sources.
func NewCursor(schema *Schema, src *reader.ByteSource) *Cursor {
	return newCursor(schema, reader.NewFieldReader(src))
}

// Next advances the cursor to the next row. It returns false with a nil
// error at the end of the stream and false with the scan's error on
// malformed input. Either way the cursor is exhausted afterwards
// (RowID() == -1).
//
// A record is allowed to be short: missing trailing columns are padded with
// null. Fields beyond the schema's column count are discarded. A field
// whose label deviates from the schema's order is a hard error, since the
// row layout is assumed stable across the whole file.
func (c *Cursor) Next() (bool, error) {
	nCol := c.schema.NumColumns()
	i := 0
	for {
		outcome, err := c.rdr.ReadField()
		if err == io.EOF {
			if i < nCol {
				c.rowID = -1
				return false, nil
			}
			break
		}
		if err != nil {
			c.rowID = -1
			return false, err
		}
		if i < nCol {
			if c.rdr.Label() != c.schema.Columns[i].Name {
				c.rowID = -1
				return false, reader.NewStructuralError(c.rdr.Record(), c.rdr.Offset(),
					"column order change is not supported (got '%s', expected '%s')",
					c.rdr.Label(), c.schema.Columns[i].Name)
			}
			c.vals[i] = append(c.vals[i][:0], c.rdr.Value()...)
			c.types[i] = c.rdr.ValueType()
			c.absent[i] = false
			i++
		}
		if outcome == reader.LastFieldOfRecord {
			break
		}
	}
	for ; i < nCol; i++ {
		c.vals[i] = c.vals[i][:0]
		c.types[i] = reader.TypeNull
		c.absent[i] = true
	}
	c.rowID++
	return true, nil
}

// RowID returns the 0-based identifier of the current row, or -1 if the
// cursor is exhausted or has not been advanced yet.
func (c *Cursor) RowID() int64 { return c.rowID }

// Column returns the raw value text and token type of column i. ok is false
// if the column was absent from the record (padded null).
func (c *Cursor) Column(i int) (val []byte, typ reader.JSONType, ok bool) {
	if c.absent[i] {
		return nil, reader.TypeNull, false
	}
	return c.vals[i], c.types[i], true
}

// Text returns the raw value text of column i, empty for an absent column.
// Numbers and literals are returned as their source text.
func (c *Cursor) Text(i int) string { return string(c.vals[i]) }

// Float materializes column i under the metric contract: a number token is
// converted, a null token (or an absent column) is reported as null, and
// any other token type is a TypeError. A number token the conversion
// rejects, such as 1.2.3, is also a TypeError: the tokenizer accepts
// numbers by character class alone and this is the validation boundary.
func (c *Cursor) Float(i int) (v float64, null bool, err error) {
	name := c.schema.Columns[i].Name
	switch c.types[i] {
	case reader.TypeNumber:
		f, err := strconv.ParseFloat(string(c.vals[i]), 64)
		if err != nil {
			return 0, false, reader.NewTypeError(name,
				"invalid number '%s' inside a metric %s", c.vals[i], name)
		}
		return f, false, nil
	case reader.TypeNull:
		return 0, true, nil
	default:
		return 0, false, reader.NewTypeError(name,
			"unexpected JSON value inside a metric, got %s='%s', expected number or null",
			name, c.vals[i])
	}
}

// Rewind re-seeks to the start of the file and clears all parse state, so
// the next call to Next yields the first row again.
func (c *Cursor) Rewind() error {
	if err := c.rdr.Rewind(); err != nil {
		return err
	}
	c.rowID = -1
	return nil
}

// Close releases the cursor's reader and file handle.
func (c *Cursor) Close() error { return c.rdr.Close() }
