// internal/domain/session/errors.go
package session

import "errors"

// ErrNotAuthenticated is returned by operations that require a signed-in user
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthError is returned when the backend rejects credentials or a signup profile
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
