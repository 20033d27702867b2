package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrHarvestInProgress indicates a harvest is already running
	// for the same run identifier.
	ErrHarvestInProgress = errors.New("harvest in progress")

	// ErrRateLimited indicates the API rate limit was exceeded and
	// the retry budget is exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthInvalid indicates the supplied token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrNoProject indicates the project could not be resolved.
	ErrNoProject = errors.New("project not found")
)
