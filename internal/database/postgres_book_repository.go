package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// PostgresBookRepository persists book records in PostgreSQL. It also serves
// the catalog reader used for duplicate detection.
type PostgresBookRepository struct {
	db *sql.DB
}

// NewPostgresBookRepository creates a new PostgreSQL book repository.
func NewPostgresBookRepository(db *sql.DB) *PostgresBookRepository {
	return &PostgresBookRepository{db: db}
}

// Create stores a book record and returns its identifier.
func (r *PostgresBookRepository) Create(ctx context.Context, book models.Book) (string, error) {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}

	query := `
		INSERT INTO books (id, title, author, published_date, language, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.PublishedDate,
		book.Language,
		book.Source,
	).Scan(&id)

	if err != nil {
		if strings.Contains(err.Error(), "idx_books_source") {
			return "", fmt.Errorf("book with source %s already stored: %w", book.Source, err)
		}
		return "", fmt.Errorf("failed to store book: %w", err)
	}

	return id, nil
}

// List retrieves persisted books, newest first.
func (r *PostgresBookRepository) List(ctx context.Context, limit int) ([]models.Book, error) {
	query := `
		SELECT id, title, author, published_date, language, source, created_at
		FROM books
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var book models.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.PublishedDate,
			&book.Language,
			&book.Source,
			&book.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return books, nil
}

// GetByID retrieves a single book, or nil when it does not exist.
func (r *PostgresBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query := `
		SELECT id, title, author, published_date, language, source, created_at
		FROM books
		WHERE id = $1
	`

	var book models.Book
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.PublishedDate,
		&book.Language,
		&book.Source,
		&book.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &book, nil
}

// ListCatalog returns every stored book projected onto a catalog entry, for
// duplicate detection against incoming books.
func (r *PostgresBookRepository) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	query := `SELECT id, title, author, source FROM books`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	entries := []models.CatalogEntry{}
	for rows.Next() {
		var entry models.CatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Author, &entry.Source); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Count returns the total number of stored books.
func (r *PostgresBookRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}
