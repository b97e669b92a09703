package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show statistics about a Druid result file",
	Long: `Scan a Druid result file and display the record count plus, for every
metric column, its minimum, maximum, mean and null count.

Examples:
  druidtab stats raw_result.json --metrics clicks,cost
  druidtab stats raw_result.json --args 'filename=raw_result.json, metrics="clicks"'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

type metricStats struct {
	min, max, sum float64
	count, nulls  int64
}

func runStats(cmd *cobra.Command, args []string) error {
	tab, err := openTable(args)
	if err != nil {
		return err
	}
	cur, err := tab.Cursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	schema := tab.Schema()
	stats := make(map[int]*metricStats)
	for i, col := range schema.Columns {
		if col.Metric {
			stats[i] = &metricStats{min: math.Inf(1), max: math.Inf(-1)}
		}
	}

	var rows int64
	for {
		ok, err := cur.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		rows++
		for i, s := range stats {
			v, null, err := cur.Float(i)
			if err != nil {
				return err
			}
			if null {
				s.nulls++
				continue
			}
			s.count++
			s.sum += v
			s.min = math.Min(s.min, v)
			s.max = math.Max(s.max, v)
		}
	}

	fmt.Printf("File: %s\n", tab.Path())
	fmt.Printf("Columns: %d\n", schema.NumColumns())
	fmt.Printf("Total records: %d\n", rows)

	if len(stats) > 0 {
		fmt.Printf("\nMetrics:\n")
		for i, col := range schema.Columns {
			s, ok := stats[i]
			if !ok {
				continue
			}
			fmt.Printf("  %s:\n", col.Name)
			fmt.Printf("    nulls: %d\n", s.nulls)
			if s.count > 0 {
				fmt.Printf("    min: %g\n", s.min)
				fmt.Printf("    max: %g\n", s.max)
				fmt.Printf("    mean: %g\n", s.sum/float64(s.count))
			}
		}
	}
	return nil
}
