package cmd

import (
	"fmt"

	"github.com/bisegni/druidtab/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	loadDSN   string
	loadTable string
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Materialize a Druid result file into a SQLite database",
	Long: `Create a SQLite table from the inferred schema (metric columns REAL,
everything else TEXT) and insert every record of the result file, so the
data can be queried with plain SQL.

Examples:
  druidtab load raw_result.json --db out.db
  druidtab load raw_result.json --metrics clicks,cost --db out.db --table results`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDSN, "db", "", "SQLite database to create or open")
	loadCmd.Flags().StringVar(&loadTable, "table", "druid_result", "Name of the table to create")
	loadCmd.MarkFlagRequired("db")
}

func runLoad(cmd *cobra.Command, args []string) error {
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
	db, err := storage.Open(ctx, loadDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := storage.Load(ctx, db, loadTable, tab.Schema(), cur)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d record(s) into %s (table %s)\n", n, loadDSN, loadTable)
	return nil
}
