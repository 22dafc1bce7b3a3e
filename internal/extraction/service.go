package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/textproc"
)

// ServiceConfig holds settings for the OpenAI-backed extraction service.
type ServiceConfig struct {
	Model        string
	MaxTokens    int
	Temperature  float32
	SubChunkSize int
	Timeout      time.Duration
}

// DefaultServiceConfig returns model settings for paragraph extraction. The
// sub-chunk size re-splits inbound chunks so a single completion request
// stays inside the model's input window.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Model:        openai.GPT4o,
		MaxTokens:    16000,
		Temperature:  0.3,
		SubChunkSize: 100000,
		Timeout:      3 * time.Minute,
	}
}

// Service extracts paragraphs from book text with the OpenAI chat API. It
// backs the processing endpoint the pipeline's Client talks to.
type Service struct {
	client *openai.Client
	config ServiceConfig
	logger *slog.Logger
}

// NewService creates an OpenAI-backed extraction service.
func NewService(apiKey string, cfg ServiceConfig, logger *slog.Logger) *Service {
	return &Service{
		client: openai.NewClient(apiKey),
		config: cfg,
		logger: logger,
	}
}

// ProcessBookText re-splits the inbound chunk to fit the model input window
// and extracts paragraphs from each piece sequentially, preserving order.
// The chunk index and total are only context for logging; the caller already
// guarantees chunks arrive one at a time.
func (s *Service) ProcessBookText(ctx context.Context, bookText string, chunkIndex, totalChunks int) ([]string, error) {
	pieces, err := textproc.Chunk(bookText, s.config.SubChunkSize)
	if err != nil {
		return nil, err
	}

	s.logger.Info("processing book text",
		"chunk", chunkIndex,
		"total_chunks", totalChunks,
		"pieces", len(pieces),
	)

	paragraphs := make([]string, 0, 256)
	for i, piece := range pieces {
		extracted, err := s.processPiece(ctx, piece, i+1, len(pieces))
		if err != nil {
			return nil, fmt.Errorf("piece %d/%d: %w", i+1, len(pieces), err)
		}

		paragraphs = append(paragraphs, extracted...)

		s.logger.Debug("piece processed",
			"piece", i+1,
			"pieces", len(pieces),
			"paragraphs", len(extracted),
			"total_so_far", len(paragraphs),
		)
	}

	return paragraphs, nil
}

// processPiece runs one completion request for a model-sized piece of text.
func (s *Service) processPiece(ctx context.Context, piece string, pieceIndex, pieceTotal int) ([]string, error) {
	apiCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(apiCtx, openai.ChatCompletionRequest{
		Model:               s.config.Model,
		Temperature:         s.config.Temperature,
		MaxCompletionTokens: s.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildExtractionPrompt(piece, pieceIndex, pieceTotal),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, fmt.Errorf("completion returned an empty response (model %s, finish reason %s)",
			s.config.Model, resp.Choices[0].FinishReason)
	}

	if resp.Choices[0].FinishReason == openai.FinishReasonLength {
		s.logger.Warn("completion was truncated, continuing with partial results",
			"piece", pieceIndex, "pieces", pieceTotal)
	}

	// A plain-text answer with no JSON at all means the piece held no
	// extractable narrative (dedications, tables of contents and the like).
	if !strings.Contains(content, "{") || !strings.Contains(content, "paragraphs") {
		s.logger.Warn("piece contains no extractable paragraphs, skipping",
			"piece", pieceIndex, "pieces", pieceTotal)
		return nil, nil
	}

	return parseParagraphs(content)
}

var (
	codeFenceRe  = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	paragraphsRe = regexp.MustCompile(`\{\s*"paragraphs"\s*:\s*\[[\s\S]*?\]\s*\}`)
	anyObjectRe  = regexp.MustCompile(`\{[\s\S]*\}`)
)

type paragraphsPayload struct {
	Paragraphs []string `json:"paragraphs"`
}

// parseParagraphs decodes the model's JSON answer, salvaging objects wrapped
// in markdown code fences or surrounded by commentary, and repairing
// truncated arrays by closing unbalanced brackets. A response that cannot be
// salvaged is treated as non-narrative content rather than a hard failure;
// JSON that parses but lacks the paragraphs array is an error.
func parseParagraphs(content string) ([]string, error) {
	var payload paragraphsPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		if payload.Paragraphs == nil {
			return nil, fmt.Errorf("response is missing the paragraphs array")
		}
		return payload.Paragraphs, nil
	}

	candidate := content
	if match := codeFenceRe.FindStringSubmatch(content); match != nil {
		candidate = match[1]
	}

	object := paragraphsRe.FindString(candidate)
	if object == "" {
		object = anyObjectRe.FindString(candidate)
	}
	if object == "" {
		return nil, nil
	}

	object += strings.Repeat("]", max(0, strings.Count(object, "[")-strings.Count(object, "]")))
	object += strings.Repeat("}", max(0, strings.Count(object, "{")-strings.Count(object, "}")))

	payload = paragraphsPayload{}
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		return nil, nil
	}
	if payload.Paragraphs == nil {
		return nil, fmt.Errorf("response is missing the paragraphs array")
	}

	return payload.Paragraphs, nil
}
