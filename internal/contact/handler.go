package contact

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/contactbook/contactbook/internal/middleware"
)

// Handler exposes the /contact endpoints. All routes expect middleware.JWTAuth upstream.
type Handler struct {
	service *Service
}

// NewHandler builds a contact HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Num      string `json:"num"`
	ImageURL string `json:"imageUrl"`
}

type updateRequest struct {
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
	Num      *string `json:"num"`
	ImageURL *string `json:"imageUrl"`
}

type contactResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	Num       string    `json:"num"`
	ImageURL  string    `json:"imageUrl"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(c Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Lastname:  c.Lastname,
		Num:       c.Num,
		ImageURL:  c.ImageURL,
		UserID:    c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// Create stores a contact for the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	_, err := h.service.Create(c.UserContext(), middleware.UserID(c), Fields{
		Name:     req.Name,
		Lastname: req.Lastname,
		Num:      req.Num,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "contact saved"})
}

// List returns the caller's contacts.
func (h *Handler) List(c *fiber.Ctx) error {
	contacts, err := h.service.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	out := make([]contactResponse, 0, len(contacts))
	for _, ct := range contacts {
		out = append(out, toResponse(ct))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns one of the caller's contacts, or JSON null when it does not exist.
func (h *Handler) Get(c *fiber.Ctx) error {
	ct, err := h.service.GetOne(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, err)
	}
	if ct == nil {
		return c.Status(http.StatusOK).JSON(nil)
	}
	return c.Status(http.StatusOK).JSON(toResponse(*ct))
}

// Update modifies one of the caller's contacts.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	err := h.service.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), Patch{
		Name:     req.Name,
		Lastname: req.Lastname,
		Num:      req.Num,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "contact updated"})
}

// Delete removes one of the caller's contacts.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, http.StatusBadRequest, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "contact deleted"})
}
