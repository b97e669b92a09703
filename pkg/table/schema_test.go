package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bisegni/druidtab/pkg/reader"
	"github.com/stretchr/testify/require"
)

func writeResultFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "result.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInferSchema(t *testing.T) {
	input := `[{"timestamp":"t0","event":{"page":"home","clicks":3,"cost":0.5}}]`
	r := reader.NewFieldReader(reader.NewByteSource([]byte(input)))

	schema, start, err := InferSchema(r, map[string]bool{"clicks": true, "cost": true})
	require.NoError(t, err)

	want := []Column{
		{Name: "timestamp"},
		{Name: "page"},
		{Name: "clicks", Metric: true},
		{Name: "cost", Metric: true},
	}
	require.Equal(t, want, schema.Columns)
	require.EqualValues(t, 0, start)
	// Inference rewinds the reader when it is done.
	require.EqualValues(t, 0, r.Offset())
}

func TestInferSchemaEventOnly(t *testing.T) {
	r := reader.NewFieldReader(reader.NewByteSource([]byte(`[{"event":{"a":1,"b":2}}]`)))
	schema, _, err := InferSchema(r, nil)
	require.NoError(t, err)
	require.Equal(t, []Column{{Name: "a"}, {Name: "b"}}, schema.Columns)
}

func TestInferSchemaMetricsAreCaseSensitive(t *testing.T) {
	r := reader.NewFieldReader(reader.NewByteSource([]byte(`[{"Clicks":1}]`)))
	schema, _, err := InferSchema(r, map[string]bool{"clicks": true})
	require.NoError(t, err)
	require.False(t, schema.Columns[0].Metric)
}

func TestInferSchemaEmptyInput(t *testing.T) {
	r := reader.NewFieldReader(reader.NewByteSource([]byte("")))
	_, _, err := InferSchema(r, nil)
	require.Error(t, err)
}

func TestInferSchemaMalformedInput(t *testing.T) {
	r := reader.NewFieldReader(reader.NewByteSource([]byte(`[{"a": nope}]`)))
	_, _, err := InferSchema(r, nil)
	var lexErr *reader.LexicalError
	require.ErrorAs(t, err, &lexErr)
}

func TestSchemaSQLType(t *testing.T) {
	s := &Schema{Columns: []Column{{Name: "page"}, {Name: "clicks", Metric: true}}}
	if got := s.SQLType(0); got != "TEXT" {
		t.Errorf("SQLType(0) = %s, want TEXT", got)
	}
	if got := s.SQLType(1); got != "REAL" {
		t.Errorf("SQLType(1) = %s, want REAL", got)
	}
}

func TestOpenTable(t *testing.T) {
	path := writeResultFile(t, `[{"ts":"t0","event":{"clicks":1}},{"ts":"t1","event":{"clicks":2}}]`)

	tab, err := Open(path, []string{"clicks"})
	require.NoError(t, err)
	require.Equal(t, path, tab.Path())
	require.Equal(t, 2, tab.Schema().NumColumns())

	cur, err := tab.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	n := 0
	for {
		ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		n++
	}
	require.Equal(t, 2, n)
}

func TestOpenTableMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
}
