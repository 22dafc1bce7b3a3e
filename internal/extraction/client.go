// Package extraction turns raw chunk text into paragraph strings. The
// client side talks to a paragraph-extraction endpoint over HTTP; the
// service side implements that endpoint on top of the OpenAI chat API.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/ingest"
	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// DefaultTimeout is the wall-clock bound on a single chunk-processing call.
const DefaultTimeout = 5 * time.Minute

// ClientConfig holds settings for the extraction-service client.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// Client sends one chunk at a time to the extraction service. Calls are not
// retried here: a chunk failure must abort the containing book, since
// skipping a chunk would persist an incomplete, unflagged book.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates an extraction-service client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		endpoint: cfg.Endpoint,
		timeout:  timeout,
		http:     &http.Client{},
		logger:   logger,
	}
}

type processRequest struct {
	BookText    string          `json:"bookText"`
	ChunkIndex  int             `json:"chunkIndex"`
	TotalChunks int             `json:"totalChunks"`
	Metadata    requestMetadata `json:"metadata"`
}

type requestMetadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type processResponse struct {
	Paragraphs []string `json:"paragraphs"`
	Error      string   `json:"error,omitempty"`
}

// Process sends one chunk to the extraction service and returns the
// extracted paragraphs. Each call is independently bounded by the client
// timeout; exceeding it is reported as a timeout failure distinct from a
// service-reported error, so callers can message users differently. A body
// without a paragraphs array is an invalid-response-format failure; no part
// of a malformed response is accepted.
func (c *Client) Process(ctx context.Context, chunk string, chunkIndex, totalChunks int, meta models.BookMetadata) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(processRequest{
		BookText:    chunk,
		ChunkIndex:  chunkIndex,
		TotalChunks: totalChunks,
		Metadata:    requestMetadata{Title: meta.Title, Author: meta.Author},
	})
	if err != nil {
		return nil, ingest.Errorf(ingest.KindExtractionServiceError, "failed to encode chunk %d/%d: %v", chunkIndex, totalChunks, err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, ingest.Errorf(ingest.KindExtractionServiceError, "failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.timedOut(callCtx, err) {
			return nil, c.timeoutError(chunkIndex, totalChunks)
		}
		return nil, ingest.Errorf(ingest.KindExtractionServiceError, "chunk %d/%d: %v", chunkIndex, totalChunks, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if c.timedOut(callCtx, err) {
			return nil, c.timeoutError(chunkIndex, totalChunks)
		}
		return nil, ingest.Errorf(ingest.KindExtractionServiceError, "chunk %d/%d: reading response: %v", chunkIndex, totalChunks, err)
	}

	var parsed processResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, ingest.Errorf(ingest.KindInvalidResponseFormat, "chunk %d/%d: response is not valid JSON: %v", chunkIndex, totalChunks, err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != "" {
		msg := parsed.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, ingest.Errorf(ingest.KindExtractionServiceError, "chunk %d/%d: service reported: %s", chunkIndex, totalChunks, msg)
	}

	if parsed.Paragraphs == nil {
		return nil, ingest.Errorf(ingest.KindInvalidResponseFormat, "chunk %d/%d: response is missing the paragraphs array", chunkIndex, totalChunks)
	}

	c.logger.Debug("chunk processed",
		"chunk", chunkIndex,
		"total_chunks", totalChunks,
		"paragraphs", len(parsed.Paragraphs),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return parsed.Paragraphs, nil
}

// timedOut reports whether the call was abandoned because it exceeded the
// per-call bound rather than failing for a transport reason.
func (c *Client) timedOut(callCtx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded
}

func (c *Client) timeoutError(chunkIndex, totalChunks int) error {
	return ingest.Errorf(ingest.KindExtractionTimeout,
		"chunk %d/%d: no response within %s; the chunk might be too large or the service is slow",
		chunkIndex, totalChunks, c.timeout)
}
