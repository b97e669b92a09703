package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bisegni/druidtab/pkg/table"
)

func TestDDL(t *testing.T) {
	s := &table.Schema{Columns: []table.Column{
		{Name: "timestamp"},
		{Name: "clicks", Metric: true},
		{Name: "page"},
	}}
	got := DDL("results", s)
	want := `CREATE TABLE "results" ("timestamp" TEXT, "clicks" REAL, "page" TEXT)`
	if got != want {
		t.Errorf("DDL = %s\nwant %s", got, want)
	}
}

func TestDDLQuotesIdentifiers(t *testing.T) {
	s := &table.Schema{Columns: []table.Column{{Name: `odd"name`}}}
	got := DDL("results", s)
	want := `CREATE TABLE "results" ("odd""name" TEXT)`
	if got != want {
		t.Errorf("DDL = %s", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "result.json")
	content := `[
		{"timestamp":"t0","event":{"clicks":3,"page":"home"}},
		{"timestamp":"t1","event":{"clicks":null,"page":"about"}},
		{"timestamp":"t2","event":{"clicks":7.5,"page":"home"}}
	]`
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tab, err := table.Open(src, []string{"clicks"})
	if err != nil {
		t.Fatal(err)
	}
	cur, err := tab.Cursor()
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(dir, "out.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	n, err := Load(ctx, db, "results", tab.Schema(), cur)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n != 3 {
		t.Errorf("inserted %d rows, want 3", n)
	}

	var total float64
	if err := db.QueryRowContext(ctx,
		`SELECT SUM(clicks) FROM results WHERE page = 'home'`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 10.5 {
		t.Errorf("SUM(clicks) = %v, want 10.5", total)
	}

	var nulls int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE clicks IS NULL`).Scan(&nulls); err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("null clicks = %d, want 1", nulls)
	}
}

func TestLoadRollsBackOnBadMetric(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "result.json")
	content := `[{"clicks":1},{"clicks":"oops"}]`
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tab, err := table.Open(src, []string{"clicks"})
	if err != nil {
		t.Fatal(err)
	}
	cur, err := tab.Cursor()
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Close()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(dir, "out.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := Load(ctx, db, "results", tab.Schema(), cur); err == nil {
		t.Fatal("expected Load to fail on a string metric")
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("table has %d rows after rollback, want 0", count)
	}
}
