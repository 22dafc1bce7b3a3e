package gutenberg

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/ingest"
)

const userAgent = "BookByte/1.0 (book ingestion; text/plain only)"

// ClientConfig holds fetch behavior for the text source.
type ClientConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MinContentLength  int
}

// DefaultClientConfig returns fetch settings tuned for multi-megabyte book
// downloads against a shared public mirror.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:           120 * time.Second,
		RequestsPerSecond: 1,
		Burst:             2,
		MinContentLength:  100,
	}
}

// Client fetches plain-text books. Requests are rate limited so batch runs
// stay polite toward the source mirror.
type Client struct {
	http             *http.Client
	limiter          *rate.Limiter
	logger           *slog.Logger
	minContentLength int
}

// NewClient creates a text-source client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		http:             &http.Client{Timeout: cfg.Timeout},
		limiter:          rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:           logger,
		minContentLength: cfg.MinContentLength,
	}
}

// FetchText downloads the plain-text body at a resolved text URL. Network
// and server-side failures are marked transient so the caller's retry policy
// applies; a short body is an empty-content failure and is never retried.
func (c *Client) FetchText(ctx context.Context, textURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", ingest.NewError(ingest.KindFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return "", ingest.Errorf(ingest.KindFetchFailed, "failed to create request for %s: %v", textURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", ingest.MarkTransient(ingest.Errorf(ingest.KindFetchFailed, "fetch %s: %v", textURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchErr := ingest.Errorf(ingest.KindFetchFailed, "fetch %s: unexpected status code %d", textURL, resp.StatusCode)
		if resp.StatusCode >= 500 {
			return "", ingest.MarkTransient(fetchErr)
		}
		return "", fetchErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ingest.MarkTransient(ingest.Errorf(ingest.KindFetchFailed, "fetch %s: reading body: %v", textURL, err))
	}

	if len(body) < c.minContentLength {
		return "", ingest.Errorf(ingest.KindEmptyContent, "fetch %s: body of %d bytes is below the %d byte minimum", textURL, len(body), c.minContentLength)
	}

	c.logger.Debug("fetched book text",
		"url", textURL,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return string(body), nil
}

// ResolveTextURL implements the pipeline's book source contract.
func (c *Client) ResolveTextURL(raw string) (string, error) {
	return ResolveTextURL(raw)
}
