package datastore

import "errors"

var (
	// ErrInvalidInput marks a missing or empty required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an unknown task id.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks a registration for an email that is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials marks a login without an exact email and password match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
