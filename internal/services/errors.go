package services

import "errors"

// Service-level errors. NotFound surfaces from the repositories package;
// access control is the calling layer's concern and has no error here.
var (
	// ErrInvalidTransition means the requested status is not reachable
	// from the exhibition's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation means a required field is missing or a field value is
	// inconsistent.
	ErrValidation = errors.New("validation failed")
)
