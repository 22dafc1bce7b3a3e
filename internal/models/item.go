package models

import (
	"fmt"
)

// ItemStatus tracks one URL's journey through an ingestion run.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusFetching ItemStatus = "fetching"
	ItemStatusSuccess  ItemStatus = "success" // fetched, extracted, not a duplicate
	ItemStatusExists   ItemStatus = "exists"  // duplicate of a catalog entry
	ItemStatusError    ItemStatus = "error"
)

// Terminal reports whether the status is a final outcome. No transition may
// leave a terminal status.
func (s ItemStatus) Terminal() bool {
	switch s {
	case ItemStatusSuccess, ItemStatusExists, ItemStatusError:
		return true
	}
	return false
}

// IngestionItem is the per-URL state owned by the pipeline for the duration
// of one run. Items are reported back to the caller and then discarded; they
// are never persisted.
type IngestionItem struct {
	URL          string        `json:"url"`
	Metadata     *BookMetadata `json:"metadata,omitempty"`
	RawText      string        `json:"-"`
	IsDuplicate  bool          `json:"is_duplicate"`
	MatchedEntry *CatalogEntry `json:"matched_entry,omitempty"`
	Error        string        `json:"error,omitempty"`
	Status       ItemStatus    `json:"status"`
}

// NewIngestionItem returns a pending item for the given input URL.
func NewIngestionItem(url string) *IngestionItem {
	return &IngestionItem{URL: url, Status: ItemStatusPending}
}

// Transition moves the item to the given status. Transitions out of a
// terminal status are rejected so a finished item can never be revived.
func (it *IngestionItem) Transition(status ItemStatus) error {
	if it.Status.Terminal() {
		return fmt.Errorf("item %s: cannot transition from terminal status %s to %s", it.URL, it.Status, status)
	}
	it.Status = status
	return nil
}

// MarkError records a failure message and moves the item to the error status.
func (it *IngestionItem) MarkError(msg string) error {
	it.Error = msg
	return it.Transition(ItemStatusError)
}

// MarkDuplicate records the matched catalog entry and moves the item to the
// exists status.
func (it *IngestionItem) MarkDuplicate(entry *CatalogEntry) error {
	it.IsDuplicate = true
	it.MatchedEntry = entry
	return it.Transition(ItemStatusExists)
}
