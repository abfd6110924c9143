package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/cvtext"
	"github.com/spigell/jobboard-ai/internal/matching"
	"github.com/spigell/jobboard-ai/internal/store"
)

const defaultBodyLimit = 10 * 1024 * 1024

// Matcher runs the matching pipeline for a caller.
type Matcher interface {
	FindJobsForSeeker(ctx context.Context, caller store.Caller) ([]matching.MatchResult, error)
	FindCandidatesForVacancy(ctx context.Context, caller store.Caller, vacancyID uuid.UUID) ([]matching.MatchResult, error)
}

// Assistant runs the single-shot AI operations.
type Assistant interface {
	AnalyzeCV(ctx context.Context, cvText string) ai.AnalysisResult
	GenerateResume(ctx context.Context, profile ai.ProfileSummary) string
}

// Pinger reports database health. It may be nil.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type Server struct {
	app       *fiber.App
	matcher   Matcher
	assistant Assistant
	health    Pinger
	logger    *zap.Logger
}

func New(cfg Config, matcher Matcher, assistant Assistant, health Pinger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = defaultBodyLimit
	}

	s := &Server{
		matcher:   matcher,
		assistant: assistant,
		health:    health,
		logger:    logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "jobboard-ai",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)
	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api/v1")
	api.Get("/health", s.handleHealth)

	matches := api.Group("/matches", identity)
	matches.Get("/jobs", s.handleJobMatches)
	matches.Get("/vacancies/:id/candidates", s.handleCandidateMatches)

	assist := api.Group("/ai", identity)
	assist.Post("/cv/analyze", s.handleAnalyzeCV)
	assist.Post("/resume", s.handleResume)
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	} else if err != nil {
		status = statusFor(err)
	}

	s.logger.Info("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(started)),
	)
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, cvtext.ErrUnsupported), errors.Is(err, cvtext.ErrEmpty):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
