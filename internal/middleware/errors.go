package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error that reaches Fiber as a JSON {error} body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return http.StatusInternalServerError
}
