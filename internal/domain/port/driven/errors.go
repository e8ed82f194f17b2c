package driven

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by BlogAPI and TokenStore implementations.
var (
	// ErrUnauthorized indicates a missing, invalid, or expired credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the credential lacks permission for the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEncryptionKeyNotSet is returned by encrypting TokenStore
	// implementations when BLOGPANEL_SECRET_KEY has not been configured.
	ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set BLOGPANEL_SECRET_KEY")
)

// APIError is a failure reported by the server. Detail holds the most
// specific human-readable message the response carried.
type APIError struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d: %s", e.Status, e.Detail)
}

// Unwrap maps auth and lookup statuses onto the package sentinels so callers
// can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Detail extracts the server-reported detail from err, or "" when err is not
// an APIError.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
