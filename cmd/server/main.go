package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/api"
	"github.com/aizazja028-sketch/BookByte/internal/catalog"
	"github.com/aizazja028-sketch/BookByte/internal/config"
	"github.com/aizazja028-sketch/BookByte/internal/database"
	"github.com/aizazja028-sketch/BookByte/internal/extraction"
	"github.com/aizazja028-sketch/BookByte/internal/gutenberg"
	"github.com/aizazja028-sketch/BookByte/internal/ingest"
	"github.com/aizazja028-sketch/BookByte/internal/logging"
	"github.com/aizazja028-sketch/BookByte/internal/metrics"
	"github.com/aizazja028-sketch/BookByte/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting BookByte")

	ctx := context.Background()

	// Repositories: PostgreSQL when DATABASE_URL is set, in-memory otherwise.
	var (
		db          *sql.DB
		bookRepo    ingest.BookRepository
		paraRepo    ingest.ParagraphRepository
		catalogRead catalog.Reader
	)

	if cfg.Database.URL != "" {
		dbCfg := database.DefaultConfig()
		dbCfg.URL = cfg.Database.URL

		logger.Info("connecting to database")
		db, err = database.Connect(ctx, dbCfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db, logger); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}

		books := database.NewPostgresBookRepository(db)
		bookRepo = books
		paraRepo = database.NewPostgresParagraphRepository(db)
		catalogRead = books
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores; data is lost on restart")
		books := ingest.NewMemoryBookRepository()
		bookRepo = books
		paraRepo = ingest.NewMemoryParagraphRepository()
		catalogRead = books
	}

	// Catalog snapshot for duplicate detection.
	cache := catalog.NewCache(catalogRead)
	if err := cache.Refresh(ctx); err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "entries", cache.Size())

	// Book source.
	sourceCfg := gutenberg.DefaultClientConfig()
	sourceCfg.Timeout = cfg.Ingestion.FetchTimeout
	sourceCfg.MinContentLength = cfg.Ingestion.MinContentLength
	source := gutenberg.NewClient(sourceCfg, logger)

	// Chunk processor: HTTP client against the extraction endpoint.
	processor := extraction.NewClient(extraction.ClientConfig{
		Endpoint: cfg.Ingestion.ExtractionEndpoint,
		Timeout:  cfg.Ingestion.ExtractionTimeout,
	}, logger)

	pipelineCfg := ingest.DefaultConfig()
	pipelineCfg.MaxChunkSize = cfg.Ingestion.MaxChunkSize
	pipelineCfg.ParagraphBatchSize = cfg.Ingestion.ParagraphBatchSize

	pipeline := ingest.NewPipeline(source, processor, bookRepo, paraRepo, cache, logger, pipelineCfg)

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	pipeline.SetRecorder(collector)

	// Paragraph-extraction backend, when OpenAI credentials are configured.
	var extractor api.ParagraphExtractor
	if cfg.OpenAI.APIKey != "" {
		serviceCfg := extraction.DefaultServiceConfig()
		serviceCfg.Model = cfg.OpenAI.Model
		serviceCfg.MaxTokens = cfg.OpenAI.MaxTokens
		serviceCfg.Temperature = cfg.OpenAI.Temperature
		extractor = extraction.NewService(cfg.OpenAI.APIKey, serviceCfg, logger)
		logger.Info("paragraph extraction service enabled", "model", serviceCfg.Model)
	} else {
		logger.Warn("OPENAI_API_KEY not set, the process-book endpoint is disabled")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	api.SetupRoutes(mux, pipeline, bookRepo, paraRepo, extractor, db, logger)

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("BookByte started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
