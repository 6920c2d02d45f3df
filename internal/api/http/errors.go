package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler as
// {"error": true, "message": ...} with the matching status code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
