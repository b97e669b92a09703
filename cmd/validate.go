package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a Druid result file",
	Long: `Run a full scan over a Druid result file and report the first parse
error, including the record index and byte offset at which it occurred.

Examples:
  druidtab validate raw_result.json
  druidtab validate raw_result.json --metrics clicks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	tab, err := openTable(args)
	if err != nil {
		fmt.Printf("❌ Validation failed: %v\n", err)
		return err
	}
	cur, err := tab.Cursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	var rows int64
	for {
		ok, err := cur.Next()
		if err != nil {
			fmt.Printf("❌ Validation failed: %v\n", err)
			return err
		}
		if !ok {
			break
		}
		rows++
	}

	fmt.Printf("✅ Valid Druid result file with %d record(s), %d column(s)\n",
		rows, tab.Schema().NumColumns())
	return nil
}
