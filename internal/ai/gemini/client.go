package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/logger"
)

const (
	defaultModel           = "gemini-2.0-flash"
	defaultTemperature     = 0.7
	defaultTopP            = 0.95
	defaultMaxOutputTokens = 2048
)

// Config describes the generation parameters sent with every request.
// Nil sampling parameters fall back to the defaults; an explicit zero is kept.
type Config struct {
	APIKey          string
	Model           string
	Temperature     *float32
	TopP            *float32
	MaxOutputTokens int32
}

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client and implements ai.Generator.
type Generator struct {
	models    contentModels
	modelName string
	config    *genai.GenerateContentConfig
	logger    *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, cfg, log), nil
}

func newGenerator(models contentModels, cfg Config, log *zap.Logger) *Generator {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	temperature := float32(defaultTemperature)
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	topP := float32(defaultTopP)
	if cfg.TopP != nil {
		topP = *cfg.TopP
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	return &Generator{
		models:    models,
		modelName: model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(temperature),
			TopP:            genai.Ptr(topP),
			MaxOutputTokens: maxTokens,
		},
		logger: logger.WithCommonFields(log, "gemini", model),
	}
}

// GenerateContent sends the prompt to Gemini and returns the concatenated text parts.
// Provider failures are returned as *ai.ProviderError.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), g.config)
	if err != nil {
		g.logger.Debug("gemini generate content failed", zap.Error(err))
		return "", classifyError(err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	g.logger.Debug("gemini generate content response", responseFields(resp, len(output))...)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func responseFields(resp *genai.GenerateContentResponse, outputLen int) []zap.Field {
	fields := []zap.Field{
		zap.Int("candidates", len(resp.Candidates)),
		zap.Int("output_length", outputLen),
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].FinishReason != "" {
		fields = append(fields, zap.String("finish_reason", string(resp.Candidates[0].FinishReason)))
	}
	if usage := resp.UsageMetadata; usage != nil {
		fields = append(fields,
			zap.Int32("prompt_tokens", usage.PromptTokenCount),
			zap.Int32("output_tokens", usage.CandidatesTokenCount),
		)
	}
	return fields
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

func classifyError(err error) error {
	apiErr, ok := asAPIError(err)
	if !ok {
		return fmt.Errorf("generate content: %w", err)
	}

	return &ai.ProviderError{
		Category: categoryFor(apiErr),
		Err:      fmt.Errorf("generate content: %w", err),
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func categoryFor(apiErr genai.APIError) ai.Category {
	status := strings.ToUpper(apiErr.Status)
	message := strings.ToLower(apiErr.Message)

	switch {
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden,
		status == "UNAUTHENTICATED", status == "PERMISSION_DENIED",
		strings.Contains(message, "api key"):
		return ai.CategoryInvalidCredential
	case apiErr.Code == http.StatusTooManyRequests, status == "RESOURCE_EXHAUSTED":
		return ai.CategoryQuotaExceeded
	case apiErr.Code == http.StatusNotFound, status == "NOT_FOUND":
		return ai.CategoryModelNotFound
	case apiErr.Code == http.StatusServiceUnavailable, status == "UNAVAILABLE":
		return ai.CategoryUnavailable
	default:
		return ai.CategoryGeneric
	}
}
