package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/matheuskafuri/devtimeline/internal/render"
)

var (
	flagExportOutput string
	flagExportWidth  float64
	flagExportHeight float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a static PNG of the timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagExportOutput == "" {
			return errors.New("--output is required")
		}
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		scene, err := e.buildScene(context.Background())
		if err != nil {
			return fmt.Errorf("building timeline: %w", err)
		}

		opts := render.PNGOpts{
			Title:  render.DefaultTitle,
			Colors: e.cfg.ChartColors(),
			Width:  vg.Length(flagExportWidth) * vg.Inch,
			Height: vg.Length(flagExportHeight) * vg.Inch,
		}
		return writeOutput(cmd, e.log, flagExportOutput, func(w io.Writer) error {
			return render.WritePNG(w, scene, opts)
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "PNG file to write (- for stdout)")
	exportCmd.Flags().Float64Var(&flagExportWidth, "width", 12, "image width in inches")
	exportCmd.Flags().Float64Var(&flagExportHeight, "height", 0, "image height in inches (0 keeps the chart's aspect ratio)")
}
