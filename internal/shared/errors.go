// Package shared holds cross-module sentinels and request-scoped helpers.
package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid indicates a missing, expired or unknown API token.
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// UserSafeMessage returns an error message suitable for API clients.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, ErrTokenInvalid):
		return "invalid or expired token"
	}
	return err.Error()
}

// FieldErrors carries per-field validation messages to the handler layer.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	for field, msg := range fe {
		return field + ": " + msg
	}
	return "validation failed"
}

// Fields exposes the map for response shaping.
func (fe FieldErrors) Fields() map[string]string { return fe }
