package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bisegni/druidtab/pkg/database"
	"github.com/bisegni/druidtab/pkg/params"
	"github.com/bisegni/druidtab/pkg/table"
	"github.com/spf13/cobra"
)

var (
	rootMetrics []string
	rootArgs    string
	rootJSONL   bool
	rootPretty  bool
	rootLimit   int
)

var rootCmd = &cobra.Command{
	Use:   "druidtab [file]",
	Short: "Expose Druid query result files as tables",
	Long: `druidtab reads the JSON result files produced by Druid queries (an array
of result objects, each with the scalar fields of one optional nested
"event" object flattened in) and exposes them as uniformly-shaped tables.

The schema is inferred from the first record. Columns named with --metrics
(or in the metrics= table argument) are typed REAL; all others are TEXT.

Examples:
  druidtab raw_result.json
  druidtab raw_result.json --metrics clicks,impressions,cost --jsonl
  druidtab --args 'filename = "raw_result.json", metrics = "clicks,cost"'
  druidtab schema raw_result.json --metrics clicks
  druidtab load raw_result.json --metrics clicks --db out.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&rootMetrics, "metrics", "m", nil, "Column names to type as REAL metrics")
	rootCmd.PersistentFlags().StringVar(&rootArgs, "args", "", `Table argument string, e.g. 'filename = "x.json", metrics = "a,b"'`)

	rootCmd.Flags().BoolVar(&rootJSONL, "jsonl", false, "Emit one JSON object per line instead of an array")
	rootCmd.Flags().BoolVar(&rootPretty, "pretty", false, "Pretty print output")
	rootCmd.Flags().IntVar(&rootLimit, "limit", 0, "Stop after this many rows (0 = all)")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(interactiveCmd)
}

// openTable resolves the result file and metric set from the positional
// argument and the --metrics/--args flags, infers the schema and returns
// the table handle.
func openTable(args []string) (*table.Table, error) {
	filename := ""
	metrics := rootMetrics
	if rootArgs != "" {
		parsed, err := params.Parse(rootArgs)
		if err != nil {
			return nil, err
		}
		filename = parsed.Filename
		metrics = append(metrics, parsed.Metrics...)
	}
	if len(args) > 0 {
		filename = args[0]
	}
	if filename == "" {
		return nil, fmt.Errorf("must specify a result file (argument or --args 'filename=...')")
	}
	return table.Open(filename, metrics)
}

func runScan(cmd *cobra.Command, args []string) error {
	tab, err := openTable(args)
	if err != nil {
		return err
	}

	it, err := database.NewDruidTable(tab).Iterate()
	if err != nil {
		return err
	}
	defer it.Close()

	enc := json.NewEncoder(os.Stdout)
	if rootPretty {
		enc.SetIndent("", "  ")
	}

	if rootJSONL {
		n := 0
		for it.Next() {
			if err := enc.Encode(it.Row().Primitive()); err != nil {
				return err
			}
			n++
			if rootLimit > 0 && n >= rootLimit {
				break
			}
		}
		return it.Error()
	}

	var rows []database.OrderedMap
	for it.Next() {
		rows = append(rows, it.Row().Primitive().(database.OrderedMap))
		if rootLimit > 0 && len(rows) >= rootLimit {
			break
		}
	}
	if err := it.Error(); err != nil {
		return err
	}
	return enc.Encode(rows)
}
