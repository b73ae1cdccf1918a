package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	got []observed
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, observed{method: method, route: route, status: status})
}

func TestRequestIDAssignsAndEchoes(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestIDFrom(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get(requestIDHeader))
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	obs := &fakeObserver{}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Metrics(obs))
	app.Get("/contact/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Delete("/contact/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusUnauthorized, "nope")
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/contact/abc", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(http.MethodDelete, "/contact/def", nil))
	require.NoError(t, err)

	require.Len(t, obs.got, 2)
	assert.Equal(t, observed{method: http.MethodGet, route: "/contact/:id", status: http.StatusOK}, obs.got[0])
	assert.Equal(t, observed{method: http.MethodDelete, route: "/contact/:id", status: http.StatusUnauthorized}, obs.got[1])
}

func TestAuditLogsStatusOfErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestID(), Audit(logger))
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusUnauthorized, "nope") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Contains(t, buf.String(), `"status":401`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"request_id"`)
}

func TestErrorHandlerRendersJSON(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return assert.AnError })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
}
