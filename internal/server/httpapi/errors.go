package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/flatcms/internal/common"
)

// errorHandler renders every error as {"error": message}. Only errors
// outside the service taxonomy are logged; their text never reaches the
// client.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, message := statusOf(err)
	if code == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

func statusOf(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, common.ErrorValidation):
		msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
		return fiber.StatusBadRequest, msg
	case errors.Is(err, common.ErrorConflict):
		return fiber.StatusConflict, "already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "not found"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
