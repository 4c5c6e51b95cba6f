package service

import (
	"errors"
	"strings"
)

// Sentinel errors surfaced by the services. The HTTP boundary maps each
// to a status code; services never write HTTP responses themselves.
var (
	// ErrNotFound means no record exists with the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so callers cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateUsername means the requested username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// ValidationError reports one or more invalid or missing input fields.
type ValidationError struct {
	// Fields holds one human-readable message per offending field.
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// fieldErrors collects messages during validation and converts to a
// *ValidationError only when something was recorded.
type fieldErrors []string

func (f *fieldErrors) add(msg string) {
	*f = append(*f, msg)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
