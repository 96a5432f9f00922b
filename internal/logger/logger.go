// Package logger builds the logrus logger shared by the commands.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr and, when filePath is set, appended
// to that file as well. An unknown level falls back to info. The returned
// closer releases the log file and is never nil.
func New(levelStr, filePath string) (*logrus.Logger, io.Closer, error) {
	return newLogger(os.Stderr, levelStr, filePath)
}

func newLogger(console io.Writer, levelStr, filePath string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, file)
		closer = file
	}
	log.SetOutput(io.MultiWriter(writers...))

	return log, closer, nil
}

// Discard returns a logger that drops everything. Tests and library
// defaults use it.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
