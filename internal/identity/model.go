package identity

import "time"

// User is a registered account. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Credentials is the email/password pair used by signup and login.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	UserID string
	Token  string
}
