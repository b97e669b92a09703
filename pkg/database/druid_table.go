package database

import (
	"fmt"

	"github.com/bisegni/druidtab/pkg/table"
)

// DruidTable adapts a table.Table (a Druid result file with an inferred
// schema) to the Table interface used by query hosts.
type DruidTable struct {
	tab *table.Table
}

func NewDruidTable(tab *table.Table) *DruidTable {
	return &DruidTable{tab: tab}
}

func (t *DruidTable) Columns() []string {
	schema := t.tab.Schema()
	names := make([]string, schema.NumColumns())
	for i, col := range schema.Columns {
		names[i] = col.Name
	}
	return names
}

func (t *DruidTable) Iterate() (RowIterator, error) {
	cur, err := t.tab.Cursor()
	if err != nil {
		return nil, err
	}
	return &druidIterator{cur: cur, schema: t.tab.Schema()}, nil
}

type druidIterator struct {
	cur     *table.Cursor
	schema  *table.Schema
	current Row
	err     error
}

func (it *druidIterator) Next() bool {
	ok, err := it.cur.Next()
	if err != nil {
		it.err = err
		return false
	}
	if !ok {
		return false
	}
	// Materialize the row: the cursor reuses its buffers across records,
	// so values are copied out here. Column order follows the schema.
	om := make(OrderedMap, 0, it.schema.NumColumns())
	for i, col := range it.schema.Columns {
		var v interface{}
		if col.Metric {
			f, null, err := it.cur.Float(i)
			if err != nil {
				it.err = err
				return false
			}
			if !null {
				v = f
			}
		} else if _, _, present := it.cur.Column(i); present {
			v = it.cur.Text(i)
		}
		om = append(om, KeyVal{Key: col.Name, Val: v})
	}
	it.current = &druidRow{data: om}
	return true
}

func (it *druidIterator) Row() Row { return it.current }

func (it *druidIterator) Error() error { return it.err }

func (it *druidIterator) Close() error { return it.cur.Close() }

// druidRow implements Row over an ordered column/value list.
type druidRow struct {
	data OrderedMap
}

func (r *druidRow) Get(field string) (interface{}, error) {
	v, ok := r.data.Get(field)
	if !ok {
		return nil, fmt.Errorf("column '%s' not found", field)
	}
	return v, nil
}

func (r *druidRow) Primitive() interface{} {
	return r.data
}
