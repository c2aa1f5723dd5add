package service

import "errors"

var (
	// ErrNotFound covers both a missing record and one the caller has no
	// access to; the API does not distinguish the two.
	ErrNotFound = errors.New("not found")

	// ErrInvalid wraps validation failures; handlers map it to 400.
	ErrInvalid = errors.New("invalid input")

	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
