package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig      string
	flagDataset     string
	flagFromArchive string
	flagValidation  string
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "devtimeline",
	Short: "Timeline of published articles",
	Long: `devtimeline places articles on a time axis, one tick per article, and lets
you hover them for details and open them in the browser.

Without a subcommand it opens the terminal viewer.`,
	SilenceUsage: true,
	RunE:         runView,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config file")
	pf.StringVar(&flagDataset, "dataset", "", "dataset JSON file (overrides config)")
	pf.StringVar(&flagFromArchive, "from-archive", "", "load the named dataset from the archive instead of a file")
	pf.StringVar(&flagValidation, "validation", "", "invalid record handling: strict or skip (overrides config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level (overrides config)")

	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(archiveCmd)
}

var flagCheckUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "devtimeline %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheckUpdate {
			return nil
		}
		res, err := update.Check(cmd.Context(), update.DefaultAPI, version)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(out, "You are running the latest release.")
			return nil
		}
		fmt.Fprintf(out, "A newer release is available: %s\n", res.LatestVersion)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
