package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/contactbook/contactbook/internal/middleware"
	"github.com/contactbook/contactbook/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app  *fiber.App
	addr string
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               d.Cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: !d.Cfg.IsDevelopment(),
	})

	if err := routes.Setup(app, d); err != nil {
		return nil, err
	}

	return &Server{app: app, addr: d.Cfg.Address()}, nil
}

// App exposes the underlying Fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
