package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly     = errors.New("repository is in read-only mode")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrLookup       = errors.New("unknown category")
	ErrMalformed    = errors.New("malformed data")
	ErrUnauthorized = errors.New("invalid username or password")
	ErrNoReference  = errors.New("no reference table configured")
)

// ValidationError reports a required field that is missing or invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// LookupError reports a category absent from a reference table.
type LookupError struct {
	Table    string
	Category string
}

func (e *LookupError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("unknown category %q", e.Category)
	}
	return fmt.Sprintf("%q not found in %s table", e.Category, e.Table)
}

func (e *LookupError) Unwrap() error { return ErrLookup }
