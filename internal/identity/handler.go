package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/contactbook/contactbook/internal/apperr"
)

// Outcomes reported to a Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder receives signup and login outcomes, typically for metrics.
type Recorder interface {
	RecordSignup(outcome string)
	RecordLogin(outcome string)
}

// Handler exposes the /auth endpoints.
type Handler struct {
	service  *Service
	recorder Recorder
}

// NewHandler constructs an identity HTTP handler. recorder may be nil.
func NewHandler(service *Service, recorder Recorder) *Handler {
	return &Handler{service: service, recorder: recorder}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Signup handles account creation.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	_, err := h.service.Signup(c.UserContext(), Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		status := http.StatusBadRequest
		outcome := OutcomeRejected
		if errors.Is(err, apperr.ErrHashing) {
			status = http.StatusInternalServerError
			outcome = OutcomeError
		}
		h.recordSignup(outcome)
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	h.recordSignup(OutcomeSuccess)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "user created"})
}

// Login verifies credentials and returns a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.service.Login(c.UserContext(), Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			h.recordLogin(OutcomeRejected)
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": apperr.ErrInvalidCredentials.Error()})
		}
		h.recordLogin(OutcomeError)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	h.recordLogin(OutcomeSuccess)
	return c.Status(http.StatusOK).JSON(loginResponse{UserID: res.UserID, Token: res.Token})
}

func (h *Handler) recordSignup(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordSignup(outcome)
	}
}

func (h *Handler) recordLogin(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordLogin(outcome)
	}
}
