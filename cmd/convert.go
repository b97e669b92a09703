package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bisegni/druidtab/pkg/database"
	"github.com/bisegni/druidtab/pkg/table"
	"github.com/spf13/cobra"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a Druid result file to JSONL or CSV",
	Long: `Stream-convert a Druid result file, one record at a time, into JSON
Lines or CSV. The "event" object is flattened into the row, so the output
is flat regardless of the input nesting.

Examples:
  druidtab convert raw_result.json --to jsonl
  druidtab convert raw_result.json --to csv --metrics clicks`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "Target format (jsonl or csv)")
	convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	tab, err := openTable(args)
	if err != nil {
		return err
	}

	switch convertTo {
	case "jsonl":
		return convertJSONL(tab)
	case "csv":
		return convertCSV(tab)
	default:
		return fmt.Errorf("unknown target format '%s' (want jsonl or csv)", convertTo)
	}
}

func convertJSONL(tab *table.Table) error {
	it, err := database.NewDruidTable(tab).Iterate()
	if err != nil {
		return err
	}
	defer it.Close()

	enc := json.NewEncoder(os.Stdout)
	for it.Next() {
		if err := enc.Encode(it.Row().Primitive()); err != nil {
			return err
		}
	}
	return it.Error()
}

func convertCSV(tab *table.Table) error {
	cur, err := tab.Cursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	schema := tab.Schema()
	w := csv.NewWriter(os.Stdout)

	header := make([]string, schema.NumColumns())
	for i, col := range schema.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, schema.NumColumns())
	for {
		ok, err := cur.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		for i := range record {
			record[i] = cur.Text(i)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
