package api

import (
	"database/sql"
	"net/http"

	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/database"
	"github.com/aizazja028-sketch/BookByte/internal/ingest"
)

// SetupRoutes configures all API routes. The db may be nil when the server
// runs on in-memory stores; the extractor may be nil when no OpenAI
// credentials are configured.
func SetupRoutes(mux *http.ServeMux, pipeline *ingest.Pipeline, books ingest.BookRepository, paragraphs ingest.ParagraphRepository, extractor ParagraphExtractor, db *sql.DB, logger *slog.Logger) {
	handler := NewHandler(pipeline, books, paragraphs, extractor, logger)

	mux.HandleFunc("/api/ingest", handler.IngestHandler)
	mux.HandleFunc("/api/books", handler.ListBooksHandler)
	mux.HandleFunc("/api/books/", handler.BookParagraphsHandler)
	mux.HandleFunc("/api/process-book", handler.ProcessBookHandler)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := database.HealthCheck(r.Context(), db); err != nil {
				logger.Error("health check failed", "error", err)
				writeError(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// CORS preflight for the API surface.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})
}
