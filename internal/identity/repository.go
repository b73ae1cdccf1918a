package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactbook/contactbook/internal/apperr"
)

const pgUniqueViolation = "23505"

// Repository persists users. Create assigns the user id; FindByEmail returns
// apperr.ErrNotFound when no user has that exact email.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user under a fresh UUID.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)`, id, user.Email, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return User{}, apperr.ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("%w: insert user: %v", apperr.ErrPersistence, err)
	}
	user.ID = id.String()
	return user, nil
}

// FindByEmail fetches a user by exact email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
	var (
		id        uuid.UUID
		createdAt time.Time
		user      User
	)
	if err := row.Scan(&id, &user.Email, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.ErrNotFound
		}
		return User{}, fmt.Errorf("%w: find user: %v", apperr.ErrPersistence, err)
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
