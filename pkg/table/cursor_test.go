package table

import (
	"testing"

	"github.com/bisegni/druidtab/pkg/reader"
	"github.com/stretchr/testify/require"
)

func openCursor(t *testing.T, input string, metrics ...string) *Cursor {
	t.Helper()
	r := reader.NewFieldReader(reader.NewByteSource([]byte(input)))
	set := make(map[string]bool)
	for _, m := range metrics {
		set[m] = true
	}
	schema, _, err := InferSchema(r, set)
	require.NoError(t, err)
	return newCursor(schema, r)
}

// scan collects the Text of every column of every remaining row.
func scan(t *testing.T, cur *Cursor) [][]string {
	t.Helper()
	var rows [][]string
	for {
		ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			return rows
		}
		row := make([]string, cur.schema.NumColumns())
		for i := range row {
			row[i] = cur.Text(i)
		}
		rows = append(rows, row)
	}
}

func TestCursorScanInFileOrder(t *testing.T) {
	cur := openCursor(t, `[{"a":1,"b":"x"},{"a":2,"b":"y"},{"a":3,"b":"z"}]`)

	var ids []int64
	for {
		ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		ids = append(ids, cur.RowID())
	}
	require.Equal(t, []int64{0, 1, 2}, ids)
	require.EqualValues(t, -1, cur.RowID())
}

func TestCursorColumnValues(t *testing.T) {
	cur := openCursor(t, `[{"ts":"t0","event":{"clicks":12,"page":"home"}}]`, "clicks")

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	val, typ, present := cur.Column(0)
	require.True(t, present)
	require.Equal(t, "t0", string(val))
	require.Equal(t, reader.TypeString, typ)

	f, null, err := cur.Float(1)
	require.NoError(t, err)
	require.False(t, null)
	require.Equal(t, 12.0, f)

	require.Equal(t, "home", cur.Text(2))
}

func TestCursorMetricNull(t *testing.T) {
	cur := openCursor(t, `[{"clicks":null}]`, "clicks")

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, null, err := cur.Float(0)
	require.NoError(t, err)
	require.True(t, null)
}

func TestCursorMetricTypeError(t *testing.T) {
	for _, input := range []string{
		`[{"clicks":"12"}]`,
		`[{"clicks":true}]`,
		`[{"clicks":false}]`,
	} {
		cur := openCursor(t, input, "clicks")
		ok, err := cur.Next()
		require.NoError(t, err, input)
		require.True(t, ok, input)

		_, _, err = cur.Float(0)
		var typeErr *reader.TypeError
		require.ErrorAs(t, err, &typeErr, input)
		require.Equal(t, "clicks", typeErr.Column, input)
	}
}

func TestCursorMetricBadNumberToken(t *testing.T) {
	// The tokenizer accepts 1.2.3 by character class; conversion is where
	// it gets rejected.
	cur := openCursor(t, `[{"clicks":1.2.3}]`, "clicks")
	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = cur.Float(0)
	var typeErr *reader.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestCursorShortRowPadsNulls(t *testing.T) {
	cur := openCursor(t, `[{"a":1,"b":2,"c":3},{"a":4,"b":5}]`, "c")

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, present := cur.Column(2)
	require.False(t, present)
	f, null, err := cur.Float(2)
	require.NoError(t, err)
	require.True(t, null)
	require.Zero(t, f)
}

func TestCursorExtraFieldsDiscarded(t *testing.T) {
	// The second record grew a field; everything beyond the schema's column
	// count is silently dropped.
	cur := openCursor(t, `[{"a":1},{"a":2,"b":3}]`)

	rows := scan(t, cur)
	require.Equal(t, [][]string{{"1"}, {"2"}}, rows)
}

func TestCursorOrderChangeIsFatal(t *testing.T) {
	cur := openCursor(t, `[{"a":1,"b":2},{"b":3,"a":4}]`)

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cur.Next()
	require.False(t, ok)
	var structErr *reader.StructuralError
	require.ErrorAs(t, err, &structErr)
	require.Contains(t, err.Error(), "order change is not supported")
	require.EqualValues(t, -1, cur.RowID())
}

func TestCursorMalformedRecordIsFatal(t *testing.T) {
	cur := openCursor(t, `[{"a":1},{"a":tru}]`)

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cur.Next()
	require.False(t, ok)
	var lexErr *reader.LexicalError
	require.ErrorAs(t, err, &lexErr)

	// The error is latched: advancing again reports it again.
	_, err2 := cur.Next()
	require.Error(t, err2)
}

func TestCursorTruncatedFile(t *testing.T) {
	cur := openCursor(t, `[{"a":1,"b":2},{"a":3,"b":4`)

	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cur.Next()
	require.False(t, ok)
	require.Error(t, err)
}

func TestCursorRewindReproducesRows(t *testing.T) {
	cur := openCursor(t, `[{"a":1,"b":"x"},{"a":2,"b":"y"},{"a":3,"b":"z"}]`)

	// Read partway, rewind, then compare a full scan against a second full
	// scan: both passes must be identical.
	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, cur.Rewind())
	first := scan(t, cur)

	require.NoError(t, cur.Rewind())
	second := scan(t, cur)

	require.Equal(t, first, second)
	require.Equal(t, [][]string{{"1", "x"}, {"2", "y"}, {"3", "z"}}, first)
}
