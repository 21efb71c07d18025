package owner

import "errors"

var (
	// ErrOwnerNotFound is returned when an owner ID does not exist.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrOwnerHasCars is returned when trying to delete an owner that
	// still has registered cars.
	ErrOwnerHasCars = errors.New("owner has registered cars: remove or reassign them first")

	// ErrNoSelection is returned when update or delete is attempted
	// without a selected owner.
	ErrNoSelection = errors.New("no owner selected")

	// ErrStaleLabel is returned when a display label fails to resolve to
	// an owner id. This indicates a missed cache patch, not bad input.
	ErrStaleLabel = errors.New("owner label not found in cache")

	// ErrInvalidName is returned when the name field fails validation.
	ErrInvalidName = errors.New("invalid owner name")

	// ErrInvalidPhone is returned when the phone field fails validation.
	ErrInvalidPhone = errors.New("invalid owner phone")

	// ErrInvalidEmail is returned when the email field fails validation.
	ErrInvalidEmail = errors.New("invalid owner email")
)
