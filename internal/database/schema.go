package database

import (
	"context"
	"database/sql"
	"fmt"

	"log/slog"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		published_date TEXT NOT NULL,
		language TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_books_source ON books (source)`,
	`CREATE TABLE IF NOT EXISTS paragraphs (
		id UUID PRIMARY KEY,
		book_id UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_paragraphs_book_id ON paragraphs (book_id)`,
}

// EnsureSchema creates the books and paragraphs tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	logger.Info("ensuring database schema")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	logger.Info("database schema ready")
	return nil
}
