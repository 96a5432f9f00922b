package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/render"
	"github.com/matheuskafuri/devtimeline/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the timeline page, its dataset and daily counts over HTTP",
	Long: `Serve the timeline over HTTP:

  /            interactive chart
  /data.json   the loaded dataset
  /counts      articles per day
  /healthz     liveness
  /metrics     Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Server.Addr
		if flagAddr != "" {
			addr = flagAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Options{
			Addr:        addr,
			ReadTimeout: e.cfg.ReadTimeout(),
			Layout:      e.cfg.ChartLayout(),
			Page:        render.PageOpts{Title: render.DefaultTitle, Colors: e.cfg.ChartColors()},
		}, e.log)
		return srv.Run(ctx, e.loadDataset)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
}
