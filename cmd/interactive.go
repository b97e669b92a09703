package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bisegni/druidtab/pkg/database"
	"github.com/bisegni/druidtab/pkg/storage"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var interactiveTable string

var interactiveCmd = &cobra.Command{
	Use:   "interactive [file]",
	Short: "Query a Druid result file interactively with SQL",
	Long: `Load the result file into an in-memory SQLite database and start a
read-eval-print loop that passes each line to SQLite as SQL. This is the
original "create a virtual table, then SELECT" workflow in one step.

Examples:
  druidtab interactive raw_result.json --metrics clicks,cost
  > SELECT page, SUM(clicks) FROM druid_result GROUP BY page;`,
	Args: cobra.ExactArgs(1),
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().StringVar(&interactiveTable, "table", "druid_result", "Name of the SQL table to create")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	tab, err := openTable(args)
	if err != nil {
		return err
	}
	cur, err := tab.Cursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	ctx := cmd.Context()
	db, err := storage.Open(ctx, ":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := storage.Load(ctx, db, interactiveTable, tab.Schema(), cur)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d record(s) into table %s. Type 'exit' or 'quit' to leave.\n",
		n, interactiveTable)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "", // In-memory history for this session
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			break
		}

		if err := runSQL(db, trimmed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return nil
}

// runSQL executes one statement against the loaded database and prints any
// result rows as JSON objects in column order.
func runSQL(db *sql.DB, stmt string) error {
	rows, err := db.Query(stmt)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		om := make(database.OrderedMap, 0, len(cols))
		for i, name := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			om = append(om, database.KeyVal{Key: name, Val: v})
		}
		if err := enc.Encode(om); err != nil {
			return err
		}
	}
	return rows.Err()
}
