package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrForbidden — actor's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition — target status is not a legal successor in the
	// lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict — concurrent update raced and lost; caller should refetch
	// and retry.
	ErrConflict = errors.New("conflict: feedback was modified concurrently")

	// ErrInvalidState — operation not permitted in the feedback's current
	// state (e.g. rating a pending feedback, or rating twice).
	ErrInvalidState = errors.New("operation not allowed in current state")

	ErrInvalidEnumValue = errors.New("invalid enum value")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries per-field problems so the client can surface them
// next to the offending form inputs.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
