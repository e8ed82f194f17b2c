package model

import "time"

// Credentials are the username/password pair submitted to the login endpoint.
type Credentials struct {
	Username string
	Password string
}

// LoginResult is the body returned by a successful login.
type LoginResult struct {
	Access  string
	Refresh string
	User    LoginUser
}

// LoginUser is the abbreviated account record embedded in a LoginResult.
type LoginUser struct {
	Username string
	Email    string
	Role     Role
}

// CredentialInfo holds the claims decoded from an access credential. The
// credential is opaque to the API contract; these fields are best-effort.
type CredentialInfo struct {
	UserID    int64
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time // Zero when the credential carries no exp claim.
}

// Expired reports whether the credential's expiry is at or before now.
// A credential without an expiry never expires.
func (c CredentialInfo) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// PasswordResetTicket is returned by a password reset request. The API hands
// the reset token back directly instead of mailing it.
type PasswordResetTicket struct {
	Detail string
	Token  string
	UserID int64
}

// PasswordReset confirms a reset with the ticket's user id and token.
type PasswordReset struct {
	UserID          int64
	Token           string
	NewPassword     string
	ConfirmPassword string
}
