package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the store rejected our credentials.
	ErrUnauthorized = errors.New("store credentials rejected")
)
