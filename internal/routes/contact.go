package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contactbook/contactbook/internal/contact"
)

// RegisterContactRoutes wires the contact CRUD endpoints behind the given guards.
func RegisterContactRoutes(r fiber.Router, h *contact.Handler, guards ...fiber.Handler) {
	with := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guards...), handler)
	}
	r.Post("/contact", with(h.Create)...)
	r.Get("/contact", with(h.List)...)
	r.Get("/contact/:id", with(h.Get)...)
	r.Put("/contact/:id", with(h.Update)...)
	r.Delete("/contact/:id", with(h.Delete)...)
}
