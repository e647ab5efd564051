package service

import "github.com/pkg/errors"

// ErrInvalidCredentials is returned by Login when the username is unknown or
// the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a rejected request body. Field names the offending
// input field when one can be singled out.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message, field string) *ValidationError {
	return &ValidationError{Message: message, Field: field}
}
