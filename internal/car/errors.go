package car

import "errors"

var (
	// ErrCarNotFound is returned when a car ID does not exist.
	ErrCarNotFound = errors.New("car not found")

	// ErrCarHasRepairs is returned when trying to delete a car that
	// still has repair records.
	ErrCarHasRepairs = errors.New("car has repair records: delete them first")

	// ErrDuplicateRegistration is returned when another car already
	// holds the registration number (case-insensitive).
	ErrDuplicateRegistration = errors.New("registration number already exists")

	// ErrNoSelection is returned when update or delete is attempted
	// without a selected car.
	ErrNoSelection = errors.New("no car selected")

	// ErrStaleLabel is returned when a display label fails to resolve to
	// a car id. This indicates a missed cache patch, not bad input.
	ErrStaleLabel = errors.New("car label not found in cache")

	// ErrInvalidRegistration is returned when the registration number
	// field fails validation.
	ErrInvalidRegistration = errors.New("invalid registration number")

	// ErrInvalidBrand is returned when the brand field fails validation.
	ErrInvalidBrand = errors.New("invalid car brand")

	// ErrInvalidModel is returned when the model field fails validation.
	ErrInvalidModel = errors.New("invalid car model")

	// ErrInvalidYear is returned when the year field fails validation.
	ErrInvalidYear = errors.New("invalid car year")

	// ErrInvalidOwner is returned when the owner selection is missing or
	// does not reference a real owner.
	ErrInvalidOwner = errors.New("invalid owner selection")
)
