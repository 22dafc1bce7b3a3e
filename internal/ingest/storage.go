package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// BookRepository persists fully processed book records.
type BookRepository interface {
	// Create stores a book record and returns its identifier.
	Create(ctx context.Context, book models.Book) (string, error)

	// List retrieves persisted books, newest first.
	List(ctx context.Context, limit int) ([]models.Book, error)
}

// ParagraphRepository persists paragraphs extracted from a book.
type ParagraphRepository interface {
	// Create stores a single paragraph.
	Create(ctx context.Context, paragraph models.Paragraph) error

	// ListByBook retrieves a book's paragraphs in insertion order.
	ListByBook(ctx context.Context, bookID string, limit int) ([]models.Paragraph, error)
}

// MemoryBookRepository implements BookRepository in memory for tests and
// database-less development runs. It also serves as the catalog reader.
type MemoryBookRepository struct {
	mu    sync.Mutex
	books []models.Book
}

// NewMemoryBookRepository creates an empty in-memory book repository.
func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{}
}

// Create stores a book in memory, assigning an ID when absent.
func (r *MemoryBookRepository) Create(ctx context.Context, book models.Book) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}

	r.books = append(r.books, book)
	return book.ID, nil
}

// List retrieves books, newest first.
func (r *MemoryBookRepository) List(ctx context.Context, limit int) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Book, 0, limit)
	for i := len(r.books) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.books[i])
	}
	return result, nil
}

// ListCatalog returns all stored books projected onto catalog entries.
func (r *MemoryBookRepository) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]models.CatalogEntry, 0, len(r.books))
	for _, book := range r.books {
		entries = append(entries, models.CatalogEntryFromBook(book))
	}
	return entries, nil
}

// Size returns the number of stored books.
func (r *MemoryBookRepository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.books)
}

// MemoryParagraphRepository implements ParagraphRepository in memory. Writes
// within a persistence batch run concurrently, so access is locked.
type MemoryParagraphRepository struct {
	mu         sync.Mutex
	paragraphs []models.Paragraph
}

// NewMemoryParagraphRepository creates an empty in-memory paragraph repository.
func NewMemoryParagraphRepository() *MemoryParagraphRepository {
	return &MemoryParagraphRepository{}
}

// Create stores a paragraph in memory.
func (r *MemoryParagraphRepository) Create(ctx context.Context, paragraph models.Paragraph) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if paragraph.BookID == "" {
		return fmt.Errorf("paragraph has no book id")
	}
	if paragraph.ID == "" {
		paragraph.ID = uuid.NewString()
	}

	r.paragraphs = append(r.paragraphs, paragraph)
	return nil
}

// ListByBook retrieves a book's paragraphs in insertion order.
func (r *MemoryParagraphRepository) ListByBook(ctx context.Context, bookID string, limit int) ([]models.Paragraph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Paragraph, 0, limit)
	for _, p := range r.paragraphs {
		if p.BookID == bookID {
			result = append(result, p)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// Size returns the number of stored paragraphs.
func (r *MemoryParagraphRepository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paragraphs)
}
