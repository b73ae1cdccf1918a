package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactbook/contactbook/internal/apperr"
)

// Repository persists contacts. Every read and write except Create is scoped
// by owner; a record owned by someone else is indistinguishable from a missing one.
//
// UpdateByOwner and DeleteByOwner report the number of matched records, which is
// zero when nothing matched. Malformed ids are apperr.ErrValidation errors.
type Repository interface {
	Create(ctx context.Context, c Contact) (Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Contact, error)
	FindByOwner(ctx context.Context, ownerID, id string) (Contact, error)
	UpdateByOwner(ctx context.Context, ownerID, id string, patch Patch, at time.Time) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) (int64, error)
}

// PostgresRepository stores contacts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a contact record under a fresh UUID.
func (r *PostgresRepository) Create(ctx context.Context, c Contact) (Contact, error) {
	ownerID, err := parseUUID("owner", c.OwnerID)
	if err != nil {
		return Contact{}, err
	}
	id := uuid.New()
	_, err = r.db.Exec(ctx, `INSERT INTO contacts (id, user_id, name, lastname, num, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, ownerID, c.Name, c.Lastname, c.Num, c.ImageURL, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return Contact{}, fmt.Errorf("%w: insert contact: %v", apperr.ErrPersistence, err)
	}
	c.ID = id.String()
	return c, nil
}

// ListByOwner returns the owner's contacts in creation order.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Contact, error) {
	owner, err := parseUUID("owner", ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, name, lastname, num, image_url, created_at, updated_at
        FROM contacts WHERE user_id = $1 ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", apperr.ErrPersistence, err)
	}
	defer rows.Close()

	out := make([]Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan contact: %v", apperr.ErrPersistence, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", apperr.ErrPersistence, err)
	}
	return out, nil
}

// FindByOwner fetches one contact by id, restricted to the owner.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID, id string) (Contact, error) {
	owner, err := parseUUID("owner", ownerID)
	if err != nil {
		return Contact{}, err
	}
	contactID, err := parseUUID("contact", id)
	if err != nil {
		return Contact{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, name, lastname, num, image_url, created_at, updated_at
        FROM contacts WHERE id = $1 AND user_id = $2`, contactID, owner)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, apperr.ErrNotFound
		}
		return Contact{}, fmt.Errorf("%w: find contact: %v", apperr.ErrPersistence, err)
	}
	return c, nil
}

// UpdateByOwner applies the non-nil patch fields to the owner's contact.
func (r *PostgresRepository) UpdateByOwner(ctx context.Context, ownerID, id string, patch Patch, at time.Time) (int64, error) {
	owner, err := parseUUID("owner", ownerID)
	if err != nil {
		return 0, err
	}
	contactID, err := parseUUID("contact", id)
	if err != nil {
		return 0, err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE contacts SET
            name = COALESCE($3, name),
            lastname = COALESCE($4, lastname),
            num = COALESCE($5, num),
            image_url = COALESCE($6, image_url),
            updated_at = $7
        WHERE id = $1 AND user_id = $2`,
		contactID, owner, patch.Name, patch.Lastname, patch.Num, patch.ImageURL, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: update contact: %v", apperr.ErrPersistence, err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteByOwner removes the owner's contact.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID, id string) (int64, error) {
	owner, err := parseUUID("owner", ownerID)
	if err != nil {
		return 0, err
	}
	contactID, err := parseUUID("contact", id)
	if err != nil {
		return 0, err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND user_id = $2`, contactID, owner)
	if err != nil {
		return 0, fmt.Errorf("%w: delete contact: %v", apperr.ErrPersistence, err)
	}
	return cmd.RowsAffected(), nil
}

func scanContact(row pgx.Row) (Contact, error) {
	var (
		c         Contact
		id, owner uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &owner, &c.Name, &c.Lastname, &c.Num, &c.ImageURL, &createdAt, &updatedAt); err != nil {
		return Contact{}, err
	}
	c.ID = id.String()
	c.OwnerID = owner.String()
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}

func parseUUID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: invalid %s id %q", apperr.ErrValidation, kind, raw)
	}
	return id, nil
}
