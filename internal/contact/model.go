package contact

import (
	"fmt"
	"strings"
	"time"

	"github.com/contactbook/contactbook/internal/apperr"
)

// Contact is an address book entry owned by exactly one user.
type Contact struct {
	ID        string
	OwnerID   string
	Name      string
	Lastname  string
	Num       string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the caller-supplied attributes of a new contact.
type Fields struct {
	Name     string
	Lastname string
	Num      string
	ImageURL string
}

// Validate requires every field to be non-empty.
func (f Fields) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"lastname", f.Lastname},
		{"num", f.Num},
		{"imageUrl", f.ImageURL},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", apperr.ErrValidation, field.name)
		}
	}
	return nil
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name     *string
	Lastname *string
	Num      *string
	ImageURL *string
}

// Validate rejects fields that are present but blank.
func (p Patch) Validate() error {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"name", p.Name},
		{"lastname", p.Lastname},
		{"num", p.Num},
		{"imageUrl", p.ImageURL},
	} {
		if field.value != nil && strings.TrimSpace(*field.value) == "" {
			return fmt.Errorf("%w: %s must not be empty", apperr.ErrValidation, field.name)
		}
	}
	return nil
}

func (p Patch) apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Lastname != nil {
		c.Lastname = *p.Lastname
	}
	if p.Num != nil {
		c.Num = *p.Num
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
}
