package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/counts"
)

var (
	flagCountsOutput string
	flagCountsTable  bool
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Write the articles-per-day bar chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		ds, err := e.loadDataset(context.Background())
		if err != nil {
			return err
		}
		days := counts.Daily(ds.Records())

		if flagCountsTable {
			return writeOutput(cmd, e.log, flagCountsOutput, func(w io.Writer) error {
				return writeCountsTable(w, days)
			})
		}
		return writeOutput(cmd, e.log, flagCountsOutput, func(w io.Writer) error {
			return counts.WriteBarChart(w, days, counts.DefaultTitle)
		})
	},
}

func writeCountsTable(w io.Writer, days []counts.Day) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tARTICLES")
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%d\n", d.Date.Format("2006-01-02"), d.Count)
	}
	return tw.Flush()
}

func init() {
	countsCmd.Flags().StringVarP(&flagCountsOutput, "output", "o", "", "output file (default stdout)")
	countsCmd.Flags().BoolVar(&flagCountsTable, "table", false, "print a plain table instead of the chart page")
}
