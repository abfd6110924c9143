package ai

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/utils"
)

const defaultMaxLogLength = 200

// Generator performs a single text generation call.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GatewayConfig holds the per-call settings of the gateway.
type GatewayConfig struct {
	Timeout      time.Duration
	MaxLogLength int
}

// Gateway is the only network boundary of the AI pipeline. It never returns an
// error: failures are turned into one of the diagnostic strings.
type Gateway struct {
	generator Generator
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

// NewGateway creates a gateway. A nil generator makes every call return
// DiagnosticUnavailable.
func NewGateway(generator Generator, cfg GatewayConfig, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Gateway{
		generator: generator,
		timeout:   cfg.Timeout,
		maxLogLen: cfg.MaxLogLength,
		logger:    logger,
	}
}

// Generate sends the prompt and returns the generated text or a diagnostic.
// A returned string does not imply well-formed content.
func (g *Gateway) Generate(ctx context.Context, prompt string) string {
	if g.generator == nil {
		g.logger.Warn("ai generation skipped", zap.String("reason", "generator is not configured"))
		return CategoryUnavailable.Diagnostic()
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.Debug("ai generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	started := time.Now()
	raw, err := g.generator.GenerateContent(ctx, prompt)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = errEmptyResponse
	}
	if err != nil {
		category := Classify(err)
		g.logger.Warn("ai generation degraded to diagnostic",
			zap.String("category", category.String()),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return category.Diagnostic()
	}

	g.logger.Debug("ai generate content response",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	return raw
}

type gatewayError string

func (e gatewayError) Error() string { return string(e) }

const errEmptyResponse = gatewayError("generator returned empty response")
