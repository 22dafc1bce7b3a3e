// Package catalog maintains a process-lifetime snapshot of already-persisted
// books and matches ingestion candidates against it.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// Reader supplies the full list of persisted catalog entries.
type Reader interface {
	ListCatalog(ctx context.Context) ([]models.CatalogEntry, error)
}

// Cache holds the catalog snapshot used for duplicate detection. The
// snapshot is replaced wholesale on Refresh and is read-only in between, so
// duplicate checks within one ingestion run stay consistent even while that
// run is adding new books.
type Cache struct {
	mu      sync.RWMutex
	reader  Reader
	entries []models.CatalogEntry
}

// NewCache creates an empty cache backed by the given reader.
func NewCache(reader Reader) *Cache {
	return &Cache{reader: reader}
}

// Refresh loads the full catalog and atomically replaces the snapshot. On
// failure the previous snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	entries, err := c.reader.ListCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	return nil
}

// Snapshot returns the current set of catalog entries. The returned slice
// must be treated as read-only.
func (c *Cache) Snapshot() []models.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries
}

// Size returns the number of entries in the current snapshot.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
