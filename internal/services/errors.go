package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrProfileInconsistent = errors.New("employee profile not found for account")

	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenForged    = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")

	ErrAccountNotFound  = errors.New("account not found")
	ErrUsernameExists   = errors.New("username is already taken")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("an employee with this email already exists")
)

// ValidationError carries field-level messages keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
