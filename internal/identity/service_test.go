package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactbook/contactbook/internal/apperr"
	"github.com/contactbook/contactbook/internal/auth"
	"github.com/contactbook/contactbook/internal/password"
)

type failingRepo struct {
	createErr error
	findErr   error
}

func (r failingRepo) Create(context.Context, User) (User, error)        { return User{}, r.createErr }
func (r failingRepo) FindByEmail(context.Context, string) (User, error) { return User{}, r.findErr }

type stubHasher struct {
	hashErr   error
	verifyErr error
}

func (h stubHasher) Hash(string) (string, error)          { return "hashed", h.hashErr }
func (h stubHasher) Verify(string, string) (bool, error) { return false, h.verifyErr }

func newTestService(t *testing.T, repo Repository) (*Service, *auth.TokenIssuer) {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), 0)
	require.NoError(t, err)
	return NewService(repo, password.NewHasher(), issuer), issuer
}

func TestSignupAndLogin(t *testing.T) {
	svc, issuer := newTestService(t, NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Signup(ctx, Credentials{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	res, err := svc.Login(ctx, Credentials{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.UserID)

	userID, err := issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Signup(ctx, Credentials{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, Credentials{Email: "a@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
}

func TestSignupRequiresFields(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Signup(ctx, Credentials{Email: "", Password: "pw1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Signup(ctx, Credentials{Email: "a@x.com", Password: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSignupHashFailure(t *testing.T) {
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), 0)
	require.NoError(t, err)
	svc := NewService(NewMemoryRepository(), stubHasher{hashErr: apperr.ErrHashing}, issuer)

	_, err = svc.Signup(context.Background(), Credentials{Email: "a@x.com", Password: "pw1"})
	assert.ErrorIs(t, err, apperr.ErrHashing)
}

func TestSignupPersistenceFailure(t *testing.T) {
	svc, _ := newTestService(t, failingRepo{createErr: errors.New("save error")})

	_, err := svc.Signup(context.Background(), Credentials{Email: "a@x.com", Password: "pw1"})
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestLoginDoesNotRevealUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Signup(ctx, Credentials{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, Credentials{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := svc.Login(ctx, Credentials{Email: "b@x.com", Password: "pw1"})

	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginEmailIsExactMatch(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Signup(ctx, Credentials{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Email: "A@X.com", Password: "pw1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLoginInfrastructureFailures(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		svc, _ := newTestService(t, failingRepo{findErr: errors.New("database error")})
		_, err := svc.Login(context.Background(), Credentials{Email: "a@x.com", Password: "pw1"})
		assert.ErrorIs(t, err, apperr.ErrPersistence)
	})

	t.Run("compare", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, err := repo.Create(context.Background(), User{Email: "a@x.com", PasswordHash: "garbage"})
		require.NoError(t, err)

		svc, _ := newTestService(t, repo)
		_, err = svc.Login(context.Background(), Credentials{Email: "a@x.com", Password: "pw1"})
		assert.ErrorIs(t, err, apperr.ErrHashing)
	})
}
