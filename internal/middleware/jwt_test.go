package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactbook/contactbook/internal/apperr"
	"github.com/contactbook/contactbook/internal/auth"
)

func newProtectedApp(t *testing.T) (*fiber.App, *auth.TokenIssuer) {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/me", JWTAuth(issuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c)})
	})
	return app, issuer
}

func getMe(t *testing.T, app *fiber.App, header string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestJWTAuthValidToken(t *testing.T) {
	app, issuer := newProtectedApp(t)
	tok, err := issuer.Issue("user123")
	require.NoError(t, err)

	status, body := getMe(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user123", body["id"])
}

func TestJWTAuthToleratesExtraWhitespace(t *testing.T) {
	app, issuer := newProtectedApp(t)
	tok, err := issuer.Issue("user789")
	require.NoError(t, err)

	status, body := getMe(t, app, "  Bearer   "+tok+"  ")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user789", body["id"])
}

func TestJWTAuthMissingHeader(t *testing.T) {
	app, _ := newProtectedApp(t)

	status, body := getMe(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.ErrMissingCredentials.Error(), body["error"])
}

func TestJWTAuthRejects(t *testing.T) {
	app, _ := newProtectedApp(t)

	for name, header := range map[string]string{
		"garbage token":  "Bearer invalid-token",
		"bearer only":    "Bearer",
		"wrong scheme":   "Basic dXNlcjpwdw==",
		"too many parts": "Bearer a b",
	} {
		t.Run(name, func(t *testing.T) {
			status, body := getMe(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body["error"], "invalid token")
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, err := bearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = bearerToken("   ")
	assert.ErrorIs(t, err, apperr.ErrMissingCredentials)

	_, err = bearerToken("Token abc")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}
