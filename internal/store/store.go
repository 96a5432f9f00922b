// Package store keeps named timeline datasets in a local SQLite archive.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matheuskafuri/devtimeline/internal/article"
)

var ErrNotFound = errors.New("dataset not found")

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// DatasetInfo describes one archived dataset.
type DatasetInfo struct {
	Name    string
	Records int
	SavedAt time.Time
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS datasets (
			name     TEXT PRIMARY KEY,
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS records (
			dataset  TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			date     INTEGER NOT NULL,
			y_value  REAL NOT NULL,
			title    TEXT NOT NULL DEFAULT '',
			article  TEXT NOT NULL DEFAULT '',
			link     TEXT NOT NULL,
			PRIMARY KEY (dataset, position)
		);
		CREATE INDEX IF NOT EXISTS idx_datasets_saved_at ON datasets(saved_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// SaveDataset stores records under name, replacing any dataset already
// saved with that name.
func (s *Store) SaveDataset(name string, records []article.Record) error {
	if name == "" {
		return errors.New("dataset name is required")
	}
	if len(records) == 0 {
		return article.ErrEmpty
	}

	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE dataset = ?", name); err != nil {
		return fmt.Errorf("clearing dataset %s: %w", name, err)
	}
	_, err = tx.Exec(`
		INSERT INTO datasets (name, saved_at) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET saved_at = excluded.saved_at
	`, name, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving dataset %s: %w", name, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (dataset, position, date, y_value, title, article, link)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(name, i, r.Date.UTC().UnixNano(), r.Value, r.Title, r.Article, r.Link)
		if err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadDataset returns the named dataset in saved order.
func (s *Store) LoadDataset(name string) (*article.Dataset, error) {
	var exists int
	err := s.readDB.QueryRow("SELECT 1 FROM datasets WHERE name = ?", name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up dataset %s: %w", name, err)
	}

	rows, err := s.readDB.Query(`
		SELECT date, y_value, title, article, link FROM records
		WHERE dataset = ? ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []article.Record
	for rows.Next() {
		var (
			r    article.Record
			nano int64
		)
		if err := rows.Scan(&nano, &r.Value, &r.Title, &r.Article, &r.Link); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Date = time.Unix(0, nano).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return article.NewDataset(records)
}

// ListDatasets returns every archived dataset, most recently saved first.
func (s *Store) ListDatasets() ([]DatasetInfo, error) {
	rows, err := s.readDB.Query(`
		SELECT d.name, d.saved_at, COUNT(r.position)
		FROM datasets d LEFT JOIN records r ON r.dataset = d.name
		GROUP BY d.name
		ORDER BY d.saved_at DESC, d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var infos []DatasetInfo
	for rows.Next() {
		var (
			info DatasetInfo
			nano int64
		)
		if err := rows.Scan(&info.Name, &nano, &info.Records); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		info.SavedAt = time.Unix(0, nano)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Prune removes datasets saved more than olderThan ago and returns how many
// were deleted.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()

	tx, err := s.writeDB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM records WHERE dataset IN (SELECT name FROM datasets WHERE saved_at < ?)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning records: %w", err)
	}
	res, err := tx.Exec("DELETE FROM datasets WHERE saved_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning datasets: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if deleted > 0 {
		if _, err := s.writeDB.Exec("VACUUM"); err != nil {
			return deleted, fmt.Errorf("vacuum: %w", err)
		}
	}
	return deleted, nil
}

// Stats reports the dataset and record counts and the size of the file at
// dbPath.
func (s *Store) Stats(dbPath string) (datasets, records int, size int64, err error) {
	err = s.readDB.QueryRow(`
		SELECT (SELECT COUNT(*) FROM datasets), (SELECT COUNT(*) FROM records)
	`).Scan(&datasets, &records)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("counting: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return datasets, records, info.Size(), nil
}

// setSavedAt rewrites a dataset's timestamp. Tests use it to age datasets.
func (s *Store) setSavedAt(name string, t time.Time) error {
	_, err := s.writeDB.Exec("UPDATE datasets SET saved_at = ? WHERE name = ?", t.UnixNano(), name)
	return err
}
