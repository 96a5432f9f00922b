package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/config"
	"github.com/matheuskafuri/devtimeline/internal/store"
)

var flagPruneOlderThan string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Keep named datasets in the local archive",
	Long: `Save, list and prune datasets in the local SQLite archive. Archived datasets
can be charted with --from-archive <name>.`,
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current dataset under a name",
	Args:  cobra.ExactArgs(1),
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

		db, err := store.Open(config.ArchivePath())
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer db.Close()

		if err := db.SaveDataset(args[0], ds.Records()); err != nil {
			return fmt.Errorf("saving: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d article(s) as %q.\n", ds.Len(), args[0])
		return nil
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.ArchivePath())
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer db.Close()

		infos, err := db.ListDatasets()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Archive is empty.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tARTICLES\tSAVED")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%d\t%s ago\n", info.Name, info.Records, formatDuration(time.Since(info.SavedAt)))
		}
		return tw.Flush()
	},
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old datasets from the archive",
	Long: `Delete archived datasets older than the retention period and reclaim disk space.

Uses the retention value from config (default: 90d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := store.Open(config.ArchivePath())
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d dataset(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.ArchivePath()
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer db.Close()

		datasets, records, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Archive: %s\n", dbPath)
		fmt.Fprintf(out, "Datasets: %d\n", datasets)
		fmt.Fprintf(out, "Articles: %d\n", records)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	archivePruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")

	archiveCmd.AddCommand(archiveSaveCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archivePruneCmd)
	archiveCmd.AddCommand(archiveStatsCmd)
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func formatDuration(d time.Duration) string {
	h := d.Hours()
	days := int(h / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if int(h) > 0 {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
