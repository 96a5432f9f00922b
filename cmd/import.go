package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/config"
	"github.com/matheuskafuri/devtimeline/internal/feed"
	"github.com/matheuskafuri/devtimeline/internal/store"
)

var (
	flagImportOutput    string
	flagImportFetchBody bool
	flagImportSave      string
)

var importCmd = &cobra.Command{
	Use:   "import [feed-url...]",
	Short: "Build a dataset from RSS or Atom feeds",
	Long: `Fetch the given feeds (or the enabled feeds from config) and write a dataset
JSON. Articles are stacked by day. With --fetch-body, items without content
get the readable text of their page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		urls := args
		if len(urls) == 0 {
			urls = e.cfg.FeedURLs()
		}
		if len(urls) == 0 {
			return errors.New("no feeds given and none enabled in config")
		}

		opts := feed.Options{Workers: e.cfg.ImportWorkers(), Log: e.log}
		if flagImportFetchBody || e.cfg.Import.FetchBody {
			opts.Extractor = feed.NewReadabilityExtractor(e.cfg.ImportTimeout())
		}

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.ImportTimeout()*4)
		defer cancel()

		result := feed.FetchAll(ctx, feed.NewRSSFetcher(opts), urls)
		for _, err := range result.Errors {
			e.log.WithError(err).Warn("feed failed")
		}
		if len(result.Records) == 0 {
			return article.ErrEmpty
		}
		records, err := checkRecords(result.Records, e)
		if err != nil {
			return err
		}
		records = article.AssignStack(records)
		e.log.WithField("records", len(records)).Info("feeds imported")

		if flagImportSave != "" {
			db, err := store.Open(config.ArchivePath())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.SaveDataset(flagImportSave, records); err != nil {
				return err
			}
			e.log.WithField("name", flagImportSave).Info("saved to archive")
		}

		return writeOutput(cmd, e.log, flagImportOutput, func(w io.Writer) error {
			return article.Encode(w, records)
		})
	},
}

// checkRecords applies the configured validation mode to merged feed
// records. It runs before stacking so dropped items leave no gap in a day.
func checkRecords(records []article.Record, e *env) ([]article.Record, error) {
	mode := e.cfg.ValidationMode()
	out := records[:0:0]
	for i, r := range records {
		if err := article.Validate(i, r); err != nil {
			if mode == article.Strict {
				return nil, err
			}
			e.log.WithError(err).Warn("skipping invalid record")
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, article.ErrEmpty
	}
	return out, nil
}

func init() {
	importCmd.Flags().StringVarP(&flagImportOutput, "output", "o", "", "dataset file to write (default stdout)")
	importCmd.Flags().BoolVar(&flagImportFetchBody, "fetch-body", false, "extract page text for items without content")
	importCmd.Flags().StringVar(&flagImportSave, "save", "", "also save the dataset to the archive under this name")
}
