package cmd

import (
	"fmt"

	"github.com/bisegni/druidtab/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	schemaDDL   bool
	schemaTable string
)

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Show the inferred table schema",
	Long: `Infer the table schema from the first record of a Druid result file and
print the ordered columns with their SQL types.

Examples:
  druidtab schema raw_result.json
  druidtab schema raw_result.json --metrics clicks,cost
  druidtab schema raw_result.json --ddl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaDDL, "ddl", false, "Print the CREATE TABLE statement instead")
	schemaCmd.Flags().StringVar(&schemaTable, "table", "druid_result", "Table name to use in the DDL output")
}

func runSchema(cmd *cobra.Command, args []string) error {
	tab, err := openTable(args)
	if err != nil {
		return err
	}

	schema := tab.Schema()
	if schemaDDL {
		fmt.Println(storage.DDL(schemaTable, schema))
		return nil
	}

	fmt.Printf("File: %s\n", tab.Path())
	fmt.Printf("Columns: %d\n", schema.NumColumns())
	for i, col := range schema.Columns {
		fmt.Printf("  %-3d %s %s\n", i, col.Name, schema.SQLType(i))
	}
	return nil
}
