// Package storage materializes a scanned Druid result table into SQLite
// through database/sql, so the data can be queried with real SQL. Metric
// columns are declared REAL and bound as float64/NULL; everything else is
// TEXT. Inserts run batched inside a single transaction; SQLite has no
// dedicated bulk-load API, but a transaction keeps performance acceptable
// for moderate volumes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"github.com/bisegni/druidtab/pkg/table"
)

// Open opens a SQLite database using the provided DSN and pings it to fail
// fast on invalid paths. The DSN is passed directly to database/sql; for
// example "results.db" or "file:results.db?cache=shared".
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

// quoteIdent quotes an identifier for SQLite, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// DDL returns the CREATE TABLE statement for the given schema, declaring
// metric columns REAL and all others TEXT.
func DDL(tableName string, s *table.Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", quoteIdent(tableName))
	for i, col := range s.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", quoteIdent(col.Name), s.SQLType(i))
	}
	b.WriteString(")")
	return b.String()
}

// Load creates tableName from cur's schema and inserts every remaining row
// of the scan inside one transaction. It returns the number of rows
// inserted. Any scan or insert error rolls the transaction back.
func Load(ctx context.Context, db *sql.DB, tableName string, schema *table.Schema, cur *table.Cursor) (int64, error) {
	if _, err := db.ExecContext(ctx, DDL(tableName, schema)); err != nil {
		return 0, fmt.Errorf("sqlite: create table: %w", err)
	}

	nCol := schema.NumColumns()
	cols := make([]string, nCol)
	placeholders := make([]string, nCol)
	for i, col := range schema.Columns {
		cols[i] = quoteIdent(col.Name)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]interface{}, nCol)
	for {
		ok, err := cur.Next()
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sqlite: scan: %w", err)
		}
		if !ok {
			break
		}
		for i, col := range schema.Columns {
			if col.Metric {
				f, null, err := cur.Float(i)
				if err != nil {
					tx.Rollback()
					return 0, fmt.Errorf("sqlite: row %d: %w", cur.RowID(), err)
				}
				if null {
					args[i] = nil
				} else {
					args[i] = f
				}
				continue
			}
			if _, _, present := cur.Column(i); !present {
				args[i] = nil
			} else {
				args[i] = cur.Text(i)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}
