package auth

import "errors"

var (
	// ErrMissingToken is returned when no bearer token can be extracted
	// from the request.
	ErrMissingToken = errors.New("authentication required")

	// ErrInvalidToken is returned when a token fails signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid or expired token")
)
