package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected default port: %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != slog.LevelInfo || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Ingestion.MaxChunkSize != 200000 {
		t.Errorf("unexpected default chunk size: %d", cfg.Ingestion.MaxChunkSize)
	}
	if cfg.Ingestion.ParagraphBatchSize != 10 {
		t.Errorf("unexpected default batch size: %d", cfg.Ingestion.ParagraphBatchSize)
	}
	if cfg.Ingestion.ExtractionTimeout != 5*time.Minute {
		t.Errorf("unexpected default extraction timeout: %s", cfg.Ingestion.ExtractionTimeout)
	}
	if cfg.Ingestion.ExtractionEndpoint != "http://localhost:8080/api/process-book" {
		t.Errorf("unexpected default extraction endpoint: %s", cfg.Ingestion.ExtractionEndpoint)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.MaxTokens != 16000 {
		t.Errorf("unexpected OpenAI defaults: %+v", cfg.OpenAI)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("MAX_CHUNK_SIZE", "5000")
	t.Setenv("PARAGRAPH_BATCH_SIZE", "25")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "30")
	t.Setenv("EXTRACTION_TIMEOUT_SECONDS", "120")
	t.Setenv("DATABASE_URL", "postgres://localhost/bookbyte")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != slog.LevelDebug || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Ingestion.MaxChunkSize != 5000 {
		t.Errorf("unexpected chunk size: %d", cfg.Ingestion.MaxChunkSize)
	}
	if cfg.Ingestion.ParagraphBatchSize != 25 {
		t.Errorf("unexpected batch size: %d", cfg.Ingestion.ParagraphBatchSize)
	}
	if cfg.Ingestion.FetchTimeout != 30*time.Second {
		t.Errorf("unexpected fetch timeout: %s", cfg.Ingestion.FetchTimeout)
	}
	if cfg.Ingestion.ExtractionTimeout != 120*time.Second {
		t.Errorf("unexpected extraction timeout: %s", cfg.Ingestion.ExtractionTimeout)
	}
	if cfg.Ingestion.ExtractionEndpoint != "http://localhost:9090/api/process-book" {
		t.Errorf("extraction endpoint must follow the port: %s", cfg.Ingestion.ExtractionEndpoint)
	}
	if cfg.Database.URL != "postgres://localhost/bookbyte" {
		t.Errorf("unexpected database url: %s", cfg.Database.URL)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"non-numeric chunk size", "MAX_CHUNK_SIZE", "lots"},
		{"zero chunk size", "MAX_CHUNK_SIZE", "0"},
		{"negative batch size", "PARAGRAPH_BATCH_SIZE", "-5"},
		{"negative timeout", "FETCH_TIMEOUT_SECONDS", "-1"},
		{"temperature out of range", "OPENAI_TEMPERATURE", "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
