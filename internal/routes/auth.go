package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contactbook/contactbook/internal/identity"
)

// RegisterAuthRoutes wires the public signup and login endpoints.
func RegisterAuthRoutes(r fiber.Router, h *identity.Handler) {
	group := r.Group("/auth")
	group.Post("/signup", h.Signup)
	group.Post("/login", h.Login)
}
