package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/flatcms/internal/common"
	"github.com/dmitrijs2005/flatcms/internal/server/auth"
)

type ctxKey string

const (
	claimsKey    ctxKey = "claims"
	requestIDKey ctxKey = "requestID"
)

// requireAuth admits requests carrying a valid bearer token and stores its
// claims in the request locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(common.AuthorizationHeaderName), common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	claims, err := auth.ParseToken(strings.TrimSpace(token), s.jwtSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// accessLog tags the request with an id and logs its outcome. Errors are
// rendered here so the logged status is the one sent.
func (s *Server) accessLog(c *fiber.Ctx) error {
	id := c.Get(common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(requestIDKey, id)
	c.Set(common.RequestIDHeaderName, id)

	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"request_id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}
