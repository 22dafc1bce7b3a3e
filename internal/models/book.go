package models

import (
	"time"
)

// CatalogEntry is a snapshot row of an already-persisted book, used only for
// duplicate detection. Entries are immutable; the catalog cache replaces the
// whole set on refresh rather than mutating individual entries.
type CatalogEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Source string `json:"source"`
}

// BookMetadata holds the bibliographic fields extracted from a book's text
// header. It is derived once per fetched item and never mutated afterward.
type BookMetadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ReleaseDate string `json:"release_date"`
	Language    string `json:"language"`
	SourceURL   string `json:"source_url"`
}

// Placeholder values for header fields that could not be located. A missing
// field is not a hard extraction failure; only a missing header marker is.
const (
	UnknownTitle       = "Unknown Title"
	UnknownAuthor      = "Unknown Author"
	UnknownReleaseDate = "Unknown Release Date"
	UnknownLanguage    = "Unknown Language"
)

// Book is the record persisted for a fully processed text.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate string    `json:"published_date"` // normalized YYYY-MM-DD
	Language      string    `json:"language"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// Paragraph is one extracted paragraph belonging to a persisted book.
type Paragraph struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CatalogEntryFromBook projects a persisted book onto the fields the
// duplicate detector compares.
func CatalogEntryFromBook(b Book) CatalogEntry {
	return CatalogEntry{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Source: b.Source,
	}
}
