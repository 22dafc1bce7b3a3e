package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Ingestion IngestionConfig
	OpenAI    OpenAIConfig
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

// DatabaseConfig holds the persistence connection string. An empty URL makes
// the server fall back to in-memory stores for local development.
type DatabaseConfig struct {
	URL string
}

// IngestionConfig holds the book ingestion pipeline tunables.
type IngestionConfig struct {
	MaxChunkSize       int
	ParagraphBatchSize int
	MinContentLength   int
	FetchTimeout       time.Duration
	ExtractionEndpoint string
	ExtractionTimeout  time.Duration
}

// OpenAIConfig holds settings for the paragraph-extraction service.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

const (
	defaultPort        = "8080"
	defaultReadTimeout = 10 * time.Second
	// Ingestion runs respond synchronously, so writes may take a while.
	defaultWriteTimeout    = 30 * time.Minute
	defaultShutdownTimeout = 5 * time.Second

	defaultLogFormat = "json"

	defaultMaxChunkSize       = 200000
	defaultParagraphBatchSize = 10
	defaultMinContentLength   = 100
	defaultFetchTimeout       = 120 * time.Second
	defaultExtractionTimeout  = 5 * time.Minute

	defaultOpenAIModel     = "gpt-4o"
	defaultOpenAIMaxTokens = 16000
)

// Load reads configuration from environment variables, applying defaults
// when values are not provided.
func Load() (Config, error) {
	// Cloud Run sets PORT, but allow SERVER_PORT override for local dev
	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("SERVER_PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Ingestion: IngestionConfig{
			MaxChunkSize:       defaultMaxChunkSize,
			ParagraphBatchSize: defaultParagraphBatchSize,
			MinContentLength:   defaultMinContentLength,
			FetchTimeout:       defaultFetchTimeout,
			ExtractionEndpoint: getEnv("EXTRACTION_ENDPOINT", fmt.Sprintf("http://localhost:%s/api/process-book", port)),
			ExtractionTimeout:  defaultExtractionTimeout,
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnv("OPENAI_MODEL", defaultOpenAIModel),
			MaxTokens:   defaultOpenAIMaxTokens,
			Temperature: 0.3,
		},
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	if v := os.Getenv("MAX_CHUNK_SIZE"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_CHUNK_SIZE: %w", err)
		}
		cfg.Ingestion.MaxChunkSize = n
	}

	if v := os.Getenv("PARAGRAPH_BATCH_SIZE"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PARAGRAPH_BATCH_SIZE: %w", err)
		}
		cfg.Ingestion.ParagraphBatchSize = n
	}

	if v := os.Getenv("MIN_CONTENT_LENGTH"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MIN_CONTENT_LENGTH: %w", err)
		}
		cfg.Ingestion.MinContentLength = n
	}

	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Ingestion.FetchTimeout = d
	}

	if v := os.Getenv("EXTRACTION_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EXTRACTION_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Ingestion.ExtractionTimeout = d
	}

	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OPENAI_MAX_TOKENS: %w", err)
		}
		cfg.OpenAI.MaxTokens = n
	}

	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		temp, err := strconv.ParseFloat(v, 32)
		if err != nil || temp < 0 || temp > 2 {
			return Config{}, fmt.Errorf("invalid OPENAI_TEMPERATURE: must be a number between 0 and 2")
		}
		cfg.OpenAI.Temperature = float32(temp)
	}

	return cfg, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
