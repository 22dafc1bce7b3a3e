package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// PostgresParagraphRepository persists extracted paragraphs in PostgreSQL.
type PostgresParagraphRepository struct {
	db *sql.DB
}

// NewPostgresParagraphRepository creates a new PostgreSQL paragraph repository.
func NewPostgresParagraphRepository(db *sql.DB) *PostgresParagraphRepository {
	return &PostgresParagraphRepository{db: db}
}

// Create stores a single paragraph.
func (r *PostgresParagraphRepository) Create(ctx context.Context, paragraph models.Paragraph) error {
	if paragraph.BookID == "" {
		return fmt.Errorf("paragraph has no book id")
	}
	if paragraph.ID == "" {
		paragraph.ID = uuid.NewString()
	}

	query := `
		INSERT INTO paragraphs (id, book_id, content)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, paragraph.ID, paragraph.BookID, paragraph.Content)
	if err != nil {
		return fmt.Errorf("failed to store paragraph: %w", err)
	}

	return nil
}

// ListByBook retrieves a book's paragraphs in insertion order.
func (r *PostgresParagraphRepository) ListByBook(ctx context.Context, bookID string, limit int) ([]models.Paragraph, error) {
	query := `
		SELECT id, book_id, content, created_at
		FROM paragraphs
		WHERE book_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, bookID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query paragraphs: %w", err)
	}
	defer rows.Close()

	paragraphs := []models.Paragraph{}
	for rows.Next() {
		var p models.Paragraph
		if err := rows.Scan(&p.ID, &p.BookID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan paragraph: %w", err)
		}
		paragraphs = append(paragraphs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return paragraphs, nil
}

// CountByBook returns the number of paragraphs stored for a book.
func (r *PostgresParagraphRepository) CountByBook(ctx context.Context, bookID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM paragraphs WHERE book_id = $1", bookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count paragraphs: %w", err)
	}
	return count, nil
}
