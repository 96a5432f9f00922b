package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/browser"
	"github.com/matheuskafuri/devtimeline/internal/interact"
	"github.com/matheuskafuri/devtimeline/internal/render"
	"github.com/matheuskafuri/devtimeline/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the timeline in the terminal",
	RunE:  runView,
}

func runView(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	scene, err := e.buildScene(context.Background())
	if err != nil {
		return fmt.Errorf("building timeline: %w", err)
	}

	return tui.Run(tui.RunOpts{
		Title:  render.DefaultTitle,
		Scene:  scene,
		Colors: e.cfg.ChartColors(),
		Opener: interact.OpenerFunc(browser.Open),
	})
}
