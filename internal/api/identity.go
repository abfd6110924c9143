package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spigell/jobboard-ai/internal/store"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	callerKey = "caller"
)

// identity reads the caller set by the upstream auth layer.
func identity(c *fiber.Ctx) error {
	rawID := strings.TrimSpace(c.Get(HeaderUserID))
	if rawID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing "+HeaderUserID+" header")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid "+HeaderUserID+" header")
	}

	role, err := store.ParseRole(c.Get(HeaderUserRole))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid "+HeaderUserRole+" header")
	}

	c.Locals(callerKey, store.Caller{ID: id, Role: role})
	return c.Next()
}

func callerFrom(c *fiber.Ctx) store.Caller {
	caller, _ := c.Locals(callerKey).(store.Caller)
	return caller
}
