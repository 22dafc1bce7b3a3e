// Package api exposes the ingestion pipeline and its stored results over
// HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/ingest"
)

const defaultListLimit = 100

// ParagraphExtractor is the processing backend behind the process-book
// endpoint. It is nil when no OpenAI credentials are configured.
type ParagraphExtractor interface {
	ProcessBookText(ctx context.Context, bookText string, chunkIndex, totalChunks int) ([]string, error)
}

type Handler struct {
	pipeline   *ingest.Pipeline
	books      ingest.BookRepository
	paragraphs ingest.ParagraphRepository
	extractor  ParagraphExtractor
	logger     *slog.Logger
}

func NewHandler(pipeline *ingest.Pipeline, books ingest.BookRepository, paragraphs ingest.ParagraphRepository, extractor ParagraphExtractor, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline:   pipeline,
		books:      books,
		paragraphs: paragraphs,
		extractor:  extractor,
		logger:     logger,
	}
}

type ingestRequest struct {
	URLs []string `json:"urls"`
}

// IngestHandler handles POST /api/ingest. The run is synchronous: the
// response carries the full per-item report once every candidate has been
// driven to a terminal status and new books are persisted.
func (h *Handler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a urls array")
		return
	}

	urls := make([]string, 0, len(req.URLs))
	for _, u := range req.URLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "at least one url is required")
		return
	}

	report, err := h.pipeline.Run(r.Context(), urls)
	if err != nil {
		if h.pipeline.IsRunning() {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// ListBooksHandler handles GET /api/books.
func (h *Handler) ListBooksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r, defaultListLimit)

	books, err := h.books.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list books", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"books": books,
		"count": len(books),
	})
}

// BookParagraphsHandler handles GET /api/books/:id/paragraphs.
func (h *Handler) BookParagraphsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path shape: /api/books/:id/paragraphs
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "paragraphs" || parts[2] == "" {
		http.NotFound(w, r)
		return
	}
	bookID := parts[2]

	limit := parseLimit(r, 10000)

	paragraphs, err := h.paragraphs.ListByBook(r.Context(), bookID, limit)
	if err != nil {
		h.logger.Error("failed to list paragraphs", "book_id", bookID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"book_id":    bookID,
		"paragraphs": paragraphs,
		"count":      len(paragraphs),
	})
}

type processBookRequest struct {
	BookText    string `json:"bookText"`
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
	Metadata    struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"metadata"`
}

type processBookResponse struct {
	Paragraphs      []string `json:"paragraphs"`
	TotalParagraphs int      `json:"total_paragraphs"`
	Status          string   `json:"status"`
}

// ProcessBookHandler handles POST /api/process-book, the endpoint the
// pipeline's extraction client calls with one chunk at a time.
func (h *Handler) ProcessBookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "paragraph extraction is not configured")
		return
	}

	var req processBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if strings.TrimSpace(req.BookText) == "" {
		writeError(w, http.StatusBadRequest, "bookText is required")
		return
	}
	if req.ChunkIndex <= 0 {
		req.ChunkIndex = 1
	}
	if req.TotalChunks <= 0 {
		req.TotalChunks = 1
	}

	paragraphs, err := h.extractor.ProcessBookText(r.Context(), req.BookText, req.ChunkIndex, req.TotalChunks)
	if err != nil {
		h.logger.Error("paragraph extraction failed",
			"chunk", req.ChunkIndex,
			"total_chunks", req.TotalChunks,
			"title", req.Metadata.Title,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if paragraphs == nil {
		paragraphs = []string{}
	}

	writeJSON(w, http.StatusOK, processBookResponse{
		Paragraphs:      paragraphs,
		TotalParagraphs: len(paragraphs),
		Status:          "success",
	})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
