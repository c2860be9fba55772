// Package apperr defines the error kinds shared by the repositories,
// services and HTTP handlers. Callers wrap them with fmt.Errorf("%w: ...")
// and test for them with errors.Is.
package apperr

import "errors"

var (
	// access
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// lookup and validation
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	// generation
	ErrGenerationUnavailable     = errors.New("generation unavailable")
	ErrMalformedGenerationOutput = errors.New("malformed generation output")
)

// IsGeneration reports whether err came from the generation pipeline.
// Both kinds are retryable by the caller.
func IsGeneration(err error) bool {
	return errors.Is(err, ErrGenerationUnavailable) || errors.Is(err, ErrMalformedGenerationOutput)
}
