package api

import (
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/cvtext"
	"github.com/spigell/jobboard-ai/internal/logger"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	database := "not configured"
	if s.health != nil {
		database = "ok"
		if err := s.health.Ping(c.UserContext()); err != nil {
			s.logger.Warn("database ping failed", zap.Error(err))
			database = "unavailable"
		}
	}

	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": database,
		"time":     time.Now().UTC(),
	})
}

func (s *Server) handleJobMatches(c *fiber.Ctx) error {
	results, err := s.matcher.FindJobsForSeeker(c.UserContext(), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": results, "count": len(results)})
}

func (s *Server) handleCandidateMatches(c *fiber.Ctx) error {
	vacancyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid vacancy id")
	}

	results, err := s.matcher.FindCandidatesForVacancy(c.UserContext(), callerFrom(c), vacancyID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": results, "count": len(results)})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAnalyzeCV(c *fiber.Ctx) error {
	var text string

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		extracted, err := s.readUploadedCV(c)
		if err != nil {
			return err
		}
		text = extracted
	} else {
		var req analyzeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		text = strings.TrimSpace(req.Text)
	}

	if text == "" {
		return fiber.NewError(fiber.StatusBadRequest, "cv text is required")
	}

	caller := callerFrom(c)
	logger.WithCaller(s.logger, caller.ID.String(), string(caller.Role)).
		Debug("analyzing cv", zap.Int("text_length", len([]rune(text))))

	return c.JSON(s.assistant.AnalyzeCV(c.UserContext(), text))
}

func (s *Server) readUploadedCV(c *fiber.Ctx) (string, error) {
	header, err := c.FormFile("cv")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "multipart field \"cv\" is required")
	}

	file, err := header.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded cv")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded cv")
	}

	mimeType := cvtext.DetectMIME(header.Filename, header.Header.Get(fiber.HeaderContentType))
	return cvtext.Extract(mimeType, data)
}

func (s *Server) handleResume(c *fiber.Ctx) error {
	var profile ai.ProfileSummary
	if err := c.BodyParser(&profile); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resume := s.assistant.GenerateResume(c.UserContext(), profile)
	return c.JSON(fiber.Map{
		"resume":    resume,
		"fromModel": !ai.IsDiagnostic(resume),
	})
}
