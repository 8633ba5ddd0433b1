package service

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrResidentNotFound   = errors.New("resident not found")
	ErrFamilyHeadNotFound = errors.New("family head not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrForbidden = errors.New("forbidden")

	ErrFamilyHeadInUse  = errors.New("family head is still referenced by residents")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
	ErrIDAllocation     = errors.New("could not allocate a unique identifier")
)

// ValidationError lists rejected input fields keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
