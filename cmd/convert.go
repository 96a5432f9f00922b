package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/convert"
)

var flagConvertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <sheet.csv>",
	Short: "Build a dataset from a CSV sheet of articles",
	Long: `Read a CSV sheet whose header names at least date, title and link columns
(article is optional) and write a dataset JSON. Rows are validated first
(--validation skip drops bad rows), then the survivors are stacked by day: the
n-th article of a day gets y_value n-1.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening sheet: %w", err)
		}
		defer f.Close()

		records, err := convert.FromCSV(f, article.LoadOpts{Mode: e.cfg.ValidationMode(), Log: e.log})
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		e.log.WithField("records", len(records)).Info("sheet converted")
		return writeOutput(cmd, e.log, flagConvertOutput, func(w io.Writer) error {
			return convert.WriteJSON(w, records)
		})
	},
}

func init() {
	convertCmd.Flags().StringVarP(&flagConvertOutput, "output", "o", "", "dataset file to write (default stdout)")
}
