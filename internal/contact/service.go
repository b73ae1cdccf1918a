package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactbook/contactbook/internal/apperr"
)

// Service exposes contact CRUD. Every operation is scoped to the caller.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a contact service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new contact owned by callerID.
func (s *Service) Create(ctx context.Context, callerID string, fields Fields) (Contact, error) {
	if callerID == "" {
		return Contact{}, fmt.Errorf("%w: caller identity is required", apperr.ErrValidation)
	}
	if err := fields.Validate(); err != nil {
		return Contact{}, err
	}
	now := s.now()
	return s.repo.Create(ctx, Contact{
		OwnerID:   callerID,
		Name:      fields.Name,
		Lastname:  fields.Lastname,
		Num:       fields.Num,
		ImageURL:  fields.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// List returns every contact owned by callerID. An empty result is not an error.
func (s *Service) List(ctx context.Context, callerID string) ([]Contact, error) {
	contacts, err := s.repo.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	return contacts, nil
}

// GetOne returns the caller's contact, or nil when no contact with that id
// belongs to the caller.
func (s *Service) GetOne(ctx context.Context, callerID, id string) (*Contact, error) {
	c, err := s.repo.FindByOwner(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Update applies patch to the caller's contact. Matching nothing is not an error.
func (s *Service) Update(ctx context.Context, callerID, id string, patch Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	matched, err := s.repo.UpdateByOwner(ctx, callerID, id, patch, s.now())
	if err != nil {
		return fmt.Errorf("update contact %s: %w", id, err)
	}
	s.logger.DebugContext(ctx, "contact update applied",
		slog.String("contact_id", id),
		slog.String("user_id", callerID),
		slog.Int64("matched", matched),
	)
	return nil
}

// Delete removes the caller's contact. Matching nothing is not an error.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	deleted, err := s.repo.DeleteByOwner(ctx, callerID, id)
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	s.logger.DebugContext(ctx, "contact delete applied",
		slog.String("contact_id", id),
		slog.String("user_id", callerID),
		slog.Int64("deleted", deleted),
	)
	return nil
}
