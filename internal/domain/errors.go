package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrProfileNotFound indicates the requested profile does not exist
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMovieNotFound indicates the catalog has no title with that id
	ErrMovieNotFound = errors.New("title not found in catalog")

	// ErrNoActiveProfile indicates no profile has been selected yet
	ErrNoActiveProfile = errors.New("no profile selected")

	// ErrNoSession indicates there is no live playback session
	ErrNoSession = errors.New("no active playback session")

	// ErrIncorrectPIN indicates a wrong parental PIN; the prompt may be retried
	ErrIncorrectPIN = errors.New("incorrect PIN")

	// ErrInvalidRating indicates stars outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNotDurable indicates state changed in memory but was not persisted
	ErrNotDurable = errors.New("changes could not be saved")

	// ErrInvalidCredentials indicates sign-in input failed validation
	ErrInvalidCredentials = errors.New("invalid sign-in details")
)
