package catalog

import (
	"strings"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// FindDuplicate matches a candidate book against the catalog snapshot. A
// candidate is a duplicate of the first entry whose normalized source URL
// equals the candidate's, or whose title and author both match
// case-insensitively. Either condition alone suffices; the permissive policy
// avoids re-ingesting the same work fetched under a slightly different URL.
// Returns nil when no entry matches.
func FindDuplicate(meta models.BookMetadata, entries []models.CatalogEntry) *models.CatalogEntry {
	source := NormalizeSourceURL(meta.SourceURL)

	for i := range entries {
		entry := &entries[i]

		if source != "" && NormalizeSourceURL(entry.Source) == source {
			return entry
		}

		if strings.EqualFold(strings.TrimSpace(meta.Title), strings.TrimSpace(entry.Title)) &&
			strings.EqualFold(strings.TrimSpace(meta.Author), strings.TrimSpace(entry.Author)) {
			return entry
		}
	}

	return nil
}

// NormalizeSourceURL standardizes a source URL for comparison: lowercase,
// scheme and "www." stripped, trailing slash removed.
func NormalizeSourceURL(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimPrefix(normalized, "www.")
	normalized = strings.TrimSuffix(normalized, "/")
	return normalized
}
