package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/render"
)

var (
	flagOutput string
	flagTitle  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the interactive timeline as a self-contained HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		scene, err := e.buildScene(context.Background())
		if err != nil {
			return fmt.Errorf("building timeline: %w", err)
		}

		opts := render.PageOpts{Title: flagTitle, Colors: e.cfg.ChartColors()}
		return writeOutput(cmd, e.log, flagOutput, func(w io.Writer) error {
			return render.WriteHTML(w, scene, opts)
		})
	},
}

func init() {
	renderCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringVar(&flagTitle, "title", render.DefaultTitle, "page title")
}
