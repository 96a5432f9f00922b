package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuskafuri/devtimeline/internal/article"
)

func testDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []article.Record {
	return []article.Record{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 5, Title: "Post A", Article: "<p>A</p>", Link: "https://a.com"},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Value: 2, Title: "Post B", Article: "B", Link: "https://b.com"},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Value: 3, Title: "Post C", Link: "https://c.com"},
	}
}

func TestSaveAndLoad(t *testing.T) {
	db := testDB(t)
	records := sampleRecords()

	if err := db.SaveDataset("blog", records); err != nil {
		t.Fatalf("save: %v", err)
	}

	ds, err := db.LoadDataset("blog")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}
	for i, want := range records {
		got := ds.At(i)
		if !got.Date.Equal(want.Date) || got.Value != want.Value || got.Title != want.Title ||
			got.Article != want.Article || got.Link != want.Link {
			t.Errorf("record %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	db := testDB(t)
	if err := db.SaveDataset("blog", sampleRecords()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := db.SaveDataset("blog", sampleRecords()[:1]); err != nil {
		t.Fatalf("second save: %v", err)
	}

	ds, err := db.LoadDataset("blog")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("expected 1 record after replace, got %d", ds.Len())
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	db := testDB(t)
	if err := db.SaveDataset("blog", nil); !errors.Is(err, article.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if err := db.SaveDataset("", sampleRecords()); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestLoadMissing(t *testing.T) {
	db := testDB(t)
	if _, err := db.LoadDataset("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDatasets(t *testing.T) {
	db := testDB(t)
	if err := db.SaveDataset("old", sampleRecords()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveDataset("new", sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.setSavedAt("old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("setSavedAt: %v", err)
	}

	got, err := db.ListDatasets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(got))
	}
	if got[0].Name != "new" || got[0].Records != 3 {
		t.Errorf("expected newest first with 3 records, got %+v", got[0])
	}
	if got[1].Name != "old" || got[1].Records != 1 {
		t.Errorf("unexpected second entry %+v", got[1])
	}
}

func TestEmptyDB(t *testing.T) {
	db := testDB(t)
	got, err := db.ListDatasets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 datasets in empty db, got %d", len(got))
	}
}

func TestPruneDeletesOldDatasets(t *testing.T) {
	db := testDB(t)
	for _, name := range []string{"a", "b"} {
		if err := db.SaveDataset(name, sampleRecords()); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := db.setSavedAt("a", time.Now().Add(-48*time.Hour)); err != nil {
		t.Fatalf("setSavedAt: %v", err)
	}

	deleted, err := db.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}
	if _, err := db.LoadDataset("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected pruned dataset to be gone, got %v", err)
	}
	if _, err := db.LoadDataset("b"); err != nil {
		t.Errorf("expected b to remain: %v", err)
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	if err := db.SaveDataset("a", sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}

	deleted, err := db.Prune(365 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.SaveDataset("blog", sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}

	datasets, records, size, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if datasets != 1 || records != 3 {
		t.Errorf("expected 1 dataset / 3 records, got %d / %d", datasets, records)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
