package indexer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/vta/internal/keyword"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/storage"
	"go.uber.org/zap"
)

func testIndexer(t *testing.T) (*Indexer, storage.Storage, *keyword.BleveIndex) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	kwIndex, err := keyword.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kwIndex.Close() })
	return NewIndexer(store, kwIndex, WithLogger(zap.NewNop())), store, kwIndex
}

func posts() []models.Post {
	return []models.Post{
		{ID: 1, Title: "  GA5   Question 8 ", Content: "Use gpt-3.5-turbo-0125.\n\n Not gpt-4o-mini.", Category: "tds",
			CreatedAt: time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)},
		{ID: 2, Title: "Docker vs Podman", Content: "Podman is recommended.", Category: "tds",
			CreatedAt: time.Date(2025, 1, 28, 9, 15, 0, 0, time.UTC)},
	}
}

func TestIndexer_IndexRun(t *testing.T) {
	idx, store, kw := testIndexer(t)
	ctx := context.Background()

	run := &models.ScrapeRun{StartDate: "2025-01-01", EndDate: "2025-04-01", Category: "tds"}
	if err := idx.IndexRun(ctx, run, posts()); err != nil {
		t.Fatal(err)
	}
	if run.ID == "" {
		t.Error("run ID should be generated")
	}
	if run.PostCount != 2 {
		t.Errorf("PostCount = %d, want 2", run.PostCount)
	}

	got, err := store.GetPost(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "GA5 Question 8" || got.Content != "Use gpt-3.5-turbo-0125. Not gpt-4o-mini." {
		t.Errorf("post not preprocessed: %+v", got)
	}
	if n, _ := store.CountRuns(ctx); n != 1 {
		t.Errorf("CountRuns = %d, want 1", n)
	}

	hits, err := kw.Search(ctx, "podman", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != 2 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestIndexer_IndexRunEmpty(t *testing.T) {
	idx, store, _ := testIndexer(t)
	ctx := context.Background()
	run := &models.ScrapeRun{ID: "fixed", StartDate: "2024-01-01", EndDate: "2024-01-02", Category: "tds"}
	if err := idx.IndexRun(ctx, run, nil); err != nil {
		t.Fatal(err)
	}
	if run.ID != "fixed" {
		t.Errorf("run ID overwritten: %q", run.ID)
	}
	if n, _ := store.CountRuns(ctx); n != 1 {
		t.Errorf("CountRuns = %d, want 1", n)
	}
}

func TestIndexer_Reindex(t *testing.T) {
	_, store, _ := testIndexer(t)
	ctx := context.Background()
	if err := store.SavePosts(ctx, posts()); err != nil {
		t.Fatal(err)
	}

	fresh, err := keyword.NewBleveIndex("")
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Close()
	rebuilt := NewIndexer(store, fresh)

	n, err := rebuilt.Reindex(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Reindex = %d, want 2", n)
	}
	count, _ := fresh.DocCount()
	if count != 2 {
		t.Errorf("DocCount = %d, want 2", count)
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"  a  b  ", "a b"},
		{"a\n\tb", "a b"},
	}
	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
