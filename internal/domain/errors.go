package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden signals that the principal may not see or modify a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation signals invalid entity input.
	ErrValidation = errors.New("validation failed")
)
