package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/contactbook/contactbook/internal/apperr"
	"github.com/contactbook/contactbook/internal/auth"
)

const userIDLocal = "user_id"

// JWTAuth returns a middleware that requires `Authorization: Bearer <token>`,
// verifies the token and stores the caller's user id for downstream handlers.
func JWTAuth(verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		userID, err := verifier.Verify(token)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, apperr.ErrInvalidToken.Error())
		}
		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// UserID returns the caller id stored by JWTAuth, or "" on unprotected routes.
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(userIDLocal).(string)
	return uid
}

// bearerToken extracts the token from an Authorization header value. Surrounding
// and repeated whitespace is tolerated; anything other than exactly a Bearer
// scheme followed by one token is rejected.
func bearerToken(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", apperr.ErrMissingCredentials
	}
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", fmt.Errorf("%w: expected Bearer <token>", apperr.ErrInvalidToken)
	}
	return fields[1], nil
}
