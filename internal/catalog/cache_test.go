package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

type stubReader struct {
	entries []models.CatalogEntry
	err     error
}

func (r *stubReader) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	return r.entries, r.err
}

func TestCacheRefresh(t *testing.T) {
	reader := &stubReader{entries: []models.CatalogEntry{{ID: "1", Title: "Frankenstein"}}}
	cache := NewCache(reader)

	if cache.Size() != 0 {
		t.Fatalf("expected empty cache before refresh, got %d entries", cache.Size())
	}

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Size() != 1 {
		t.Fatalf("expected 1 entry after refresh, got %d", cache.Size())
	}

	// A later refresh replaces the snapshot wholesale.
	reader.entries = []models.CatalogEntry{
		{ID: "2", Title: "Dracula"},
		{ID: "3", Title: "Moby Dick"},
	}
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Size() != 2 {
		t.Fatalf("expected 2 entries after second refresh, got %d", cache.Size())
	}
	if cache.Snapshot()[0].ID != "2" {
		t.Errorf("snapshot must reflect the latest catalog, got entry %s", cache.Snapshot()[0].ID)
	}
}

func TestCacheRefreshFailureKeepsSnapshot(t *testing.T) {
	reader := &stubReader{entries: []models.CatalogEntry{{ID: "1"}}}
	cache := NewCache(reader)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader.err = fmt.Errorf("connection refused")
	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to report the reader failure")
	}
	if cache.Size() != 1 {
		t.Errorf("failed refresh must keep the previous snapshot, got %d entries", cache.Size())
	}
}
