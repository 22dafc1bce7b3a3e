// Package ingest drives candidate book URLs through fetch, metadata
// extraction, duplicate detection, chunked paragraph extraction and batched
// persistence, tracking per-item status throughout.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/catalog"
	"github.com/aizazja028-sketch/BookByte/internal/metadata"
	"github.com/aizazja028-sketch/BookByte/internal/models"
	"github.com/aizazja028-sketch/BookByte/internal/textproc"
)

// BookSource resolves candidate URLs and fetches plain-text books.
type BookSource interface {
	// ResolveTextURL validates a candidate URL and maps it to the text-file
	// location to fetch.
	ResolveTextURL(raw string) (string, error)

	// FetchText downloads the plain-text body at a resolved text URL.
	FetchText(ctx context.Context, textURL string) (string, error)
}

// ChunkProcessor sends one chunk of cleaned book text to the extraction
// service and returns the extracted paragraphs.
type ChunkProcessor interface {
	Process(ctx context.Context, chunk string, chunkIndex, totalChunks int, meta models.BookMetadata) ([]string, error)
}

// Recorder counts pipeline outcomes for monitoring. Implementations must be
// safe for use from the single pipeline worker.
type Recorder interface {
	ItemFinished(status models.ItemStatus)
	ChunkProcessed(ok bool)
	BookPersisted()
	ParagraphsPersisted(count int)
}

// Config holds tunables for one pipeline instance.
type Config struct {
	MaxChunkSize       int
	ParagraphBatchSize int
	FetchRetry         RetryPolicy
}

// DefaultConfig returns the pipeline defaults: 200k-character chunks and
// paragraph writes batched ten at a time.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize:       200000,
		ParagraphBatchSize: 10,
		FetchRetry:         DefaultRetryPolicy(),
	}
}

// Pipeline ingests a list of candidate book URLs in two phases: a fetch
// phase that drives every item to a terminal status, and a processing phase
// that extracts and persists paragraphs for the new, non-duplicate books. A
// single logical worker drives the whole run; the only intra-run concurrency
// is inside a paragraph-persistence batch.
type Pipeline struct {
	source     BookSource
	processor  ChunkProcessor
	books      BookRepository
	paragraphs ParagraphRepository
	catalog    *catalog.Cache
	logger     *slog.Logger
	config     Config

	observer func(item *models.IngestionItem)
	recorder Recorder

	mu      sync.Mutex
	running bool
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	source BookSource,
	processor ChunkProcessor,
	books BookRepository,
	paragraphs ParagraphRepository,
	cache *catalog.Cache,
	logger *slog.Logger,
	config Config,
) *Pipeline {
	return &Pipeline{
		source:     source,
		processor:  processor,
		books:      books,
		paragraphs: paragraphs,
		catalog:    cache,
		logger:     logger,
		config:     config,
	}
}

// SetObserver registers a callback invoked after every item status
// transition, so callers can surface granular progress.
func (p *Pipeline) SetObserver(fn func(item *models.IngestionItem)) {
	p.observer = fn
}

// SetRecorder registers a metrics recorder for pipeline outcomes.
func (p *Pipeline) SetRecorder(recorder Recorder) {
	p.recorder = recorder
}

// RunReport summarizes one ingestion run. Counts cover terminal item states;
// Processed counts books whose paragraphs were fully persisted, and
// ProcessingFailed counts fetched books whose chunk processing or
// persistence failed.
type RunReport struct {
	Items            []*models.IngestionItem `json:"items"`
	Fetched          int                     `json:"fetched"`
	Duplicates       int                     `json:"duplicates"`
	Errors           int                     `json:"errors"`
	Processed        int                     `json:"processed"`
	ProcessingFailed int                     `json:"processing_failed"`
	StartedAt        time.Time               `json:"started_at"`
	FinishedAt       time.Time               `json:"finished_at"`
}

// Run ingests the given candidate URLs. One item's failure never halts the
// batch: every error is recorded on its item and the run always completes.
// Only an invalid input as a whole (an empty URL list, or a run already in
// progress) is surfaced before the run starts.
func (p *Pipeline) Run(ctx context.Context, urls []string) (*RunReport, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no candidate urls provided")
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, fmt.Errorf("an ingestion run is already in progress")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	report := &RunReport{StartedAt: time.Now()}

	p.logger.Info("starting ingestion run", "candidates", len(urls))

	// Fetch phase: drive every item to a terminal status, one at a time.
	items := make([]*models.IngestionItem, 0, len(urls))
	for _, url := range urls {
		item := models.NewIngestionItem(url)
		items = append(items, item)
		p.fetchItem(ctx, item)

		if p.recorder != nil {
			p.recorder.ItemFinished(item.Status)
		}
	}
	report.Items = items

	// Processing phase: new non-duplicate books only, one book fully
	// processed before the next starts.
	for _, item := range items {
		switch item.Status {
		case models.ItemStatusSuccess:
			report.Fetched++
		case models.ItemStatusExists:
			report.Duplicates++
			continue
		default:
			report.Errors++
			continue
		}

		if err := p.processBook(ctx, item); err != nil {
			report.ProcessingFailed++
			item.Error = err.Error()
			p.notify(item)
			p.logger.Error("book processing failed",
				"url", item.URL,
				"title", item.Metadata.Title,
				"kind", KindOf(err),
				"error", err,
			)
			continue
		}

		report.Processed++
	}

	// Reload the catalog so later runs see the books this one added.
	if err := p.catalog.Refresh(ctx); err != nil {
		p.logger.Warn("catalog refresh after run failed", "error", err)
	}

	report.FinishedAt = time.Now()

	p.logger.Info("ingestion run complete",
		"candidates", len(urls),
		"fetched", report.Fetched,
		"duplicates", report.Duplicates,
		"errors", report.Errors,
		"processed", report.Processed,
		"processing_failed", report.ProcessingFailed,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, nil
}

// fetchItem drives a single item through validation, fetch, metadata
// extraction and duplicate detection to a terminal status.
func (p *Pipeline) fetchItem(ctx context.Context, item *models.IngestionItem) {
	textURL, err := p.source.ResolveTextURL(item.URL)
	if err != nil {
		p.failItem(item, err)
		return
	}

	p.transition(item, models.ItemStatusFetching)

	var raw string
	err = Retry(ctx, p.config.FetchRetry, func() error {
		var fetchErr error
		raw, fetchErr = p.source.FetchText(ctx, textURL)
		return fetchErr
	})
	if err != nil {
		p.failItem(item, err)
		return
	}

	meta := metadata.Extract(raw)
	if meta == nil {
		p.failItem(item, Errorf(KindMetadataExtractionFailed, "no header-termination marker found in %s", textURL))
		return
	}
	meta.SourceURL = textURL

	item.Metadata = meta
	item.RawText = raw

	if entry := catalog.FindDuplicate(*meta, p.catalog.Snapshot()); entry != nil {
		if err := item.MarkDuplicate(entry); err != nil {
			p.logger.Error("invalid status transition", "url", item.URL, "error", err)
			return
		}
		p.notify(item)
		p.logger.Info("duplicate book skipped",
			"url", item.URL,
			"title", meta.Title,
			"matched_id", entry.ID,
		)
		return
	}

	p.transition(item, models.ItemStatusSuccess)
	p.logger.Info("book fetched",
		"url", item.URL,
		"title", meta.Title,
		"author", meta.Author,
		"bytes", len(raw),
	)
}

// processBook strips boilerplate, chunks the text, processes every chunk in
// order and persists the book with its paragraphs. A chunk failure aborts
// this book only; its accumulated paragraphs are discarded, never persisted.
func (p *Pipeline) processBook(ctx context.Context, item *models.IngestionItem) error {
	cleaned := textproc.StripBoilerplate(item.RawText)

	chunks, err := textproc.Chunk(cleaned, p.config.MaxChunkSize)
	if err != nil {
		return err
	}

	p.logger.Info("processing book",
		"title", item.Metadata.Title,
		"chunks", len(chunks),
		"chars", len(cleaned),
	)

	var paragraphs []string
	for i, chunk := range chunks {
		extracted, err := p.processor.Process(ctx, chunk, i+1, len(chunks), *item.Metadata)
		if p.recorder != nil {
			p.recorder.ChunkProcessed(err == nil)
		}
		if err != nil {
			return fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		paragraphs = append(paragraphs, extracted...)
	}

	book := models.Book{
		ID:            uuid.NewString(),
		Title:         item.Metadata.Title,
		Author:        item.Metadata.Author,
		PublishedDate: metadata.NormalizeReleaseDate(item.Metadata.ReleaseDate),
		Language:      item.Metadata.Language,
		Source:        item.Metadata.SourceURL,
	}

	bookID, err := p.books.Create(ctx, book)
	if err != nil {
		return NewError(KindPersistenceFailed, fmt.Errorf("storing book record: %w", err))
	}
	if p.recorder != nil {
		p.recorder.BookPersisted()
	}

	if err := p.persistParagraphs(ctx, bookID, paragraphs); err != nil {
		return err
	}

	p.logger.Info("book persisted",
		"book_id", bookID,
		"title", book.Title,
		"paragraphs", len(paragraphs),
	)

	return nil
}

// persistParagraphs writes paragraphs in fixed-size batches: writes within a
// batch run concurrently, batches run sequentially, bounding peak in-flight
// writes while still parallelizing each batch.
func (p *Pipeline) persistParagraphs(ctx context.Context, bookID string, paragraphs []string) error {
	batchSize := p.config.ParagraphBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(paragraphs); start += batchSize {
		end := start + batchSize
		if end > len(paragraphs) {
			end = len(paragraphs)
		}

		batch := paragraphs[start:end]
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, content := range batch {
			wg.Add(1)
			go func(i int, content string) {
				defer wg.Done()
				errs[i] = p.paragraphs.Create(ctx, models.Paragraph{
					ID:      uuid.NewString(),
					BookID:  bookID,
					Content: content,
				})
			}(i, content)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return NewError(KindPersistenceFailed, fmt.Errorf("storing paragraph batch at %d: %w", start, err))
			}
		}

		if p.recorder != nil {
			p.recorder.ParagraphsPersisted(len(batch))
		}
	}

	return nil
}

// failItem records a classified failure on the item and finalizes it. The
// loop in Run proceeds to the next item regardless.
func (p *Pipeline) failItem(item *models.IngestionItem, err error) {
	if markErr := item.MarkError(err.Error()); markErr != nil {
		p.logger.Error("invalid status transition", "url", item.URL, "error", markErr)
		return
	}
	p.notify(item)
	p.logger.Warn("item failed",
		"url", item.URL,
		"kind", KindOf(err),
		"error", err,
	)
}

// transition applies a status change and notifies the observer.
func (p *Pipeline) transition(item *models.IngestionItem, status models.ItemStatus) {
	if err := item.Transition(status); err != nil {
		p.logger.Error("invalid status transition", "url", item.URL, "error", err)
		return
	}
	p.notify(item)
}

func (p *Pipeline) notify(item *models.IngestionItem) {
	if p.observer != nil {
		p.observer(item)
	}
}

// IsRunning reports whether an ingestion run is currently in progress.
func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
