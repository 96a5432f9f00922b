package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/chart"
	"github.com/matheuskafuri/devtimeline/internal/config"
	"github.com/matheuskafuri/devtimeline/internal/logger"
	"github.com/matheuskafuri/devtimeline/internal/store"
)

// env is what every command needs once flags are parsed.
type env struct {
	cfg *config.Config
	log *logrus.Logger

	closeLog io.Closer
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataset != "" {
		cfg.Dataset = flagDataset
	}
	if flagValidation != "" {
		if _, err := article.ParseMode(flagValidation); err != nil {
			return nil, fmt.Errorf("invalid --validation value: %w", err)
		}
		cfg.Validation = flagValidation
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	log, closer, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, closeLog: closer}, nil
}

func (e *env) Close() error {
	return e.closeLog.Close()
}

// loadDataset reads the dataset file, or the archived dataset named by
// --from-archive.
func (e *env) loadDataset(_ context.Context) (*article.Dataset, error) {
	start := time.Now()
	var (
		ds     *article.Dataset
		err    error
		source string
	)
	if flagFromArchive != "" {
		source = "archive:" + flagFromArchive
		ds, err = e.loadArchived(flagFromArchive)
	} else {
		source = e.cfg.Dataset
		ds, err = article.LoadFile(e.cfg.Dataset, article.LoadOpts{
			Mode: e.cfg.ValidationMode(),
			Log:  e.log,
		})
	}
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"source":  source,
		"records": ds.Len(),
		"took":    time.Since(start).Round(time.Millisecond),
	}).Debug("dataset loaded")
	return ds, nil
}

func (e *env) loadArchived(name string) (*article.Dataset, error) {
	db, err := store.Open(config.ArchivePath())
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()
	return db.LoadDataset(name)
}

func (e *env) buildScene(ctx context.Context) (*chart.Scene, error) {
	ds, err := e.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return chart.Build(ds, e.cfg.ChartLayout())
}

// outputWriter opens path for writing, or returns stdout for "" and "-".
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}

// writeOutput streams fn into path and reports where it went.
func writeOutput(cmd *cobra.Command, log logrus.FieldLogger, path string, fn func(io.Writer) error) error {
	w, closeFn, err := outputWriter(cmd, path)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if path != "" && path != "-" {
		log.WithField("path", path).Info("written")
	}
	return nil
}
