package repair

import "errors"

var (
	// ErrRepairNotFound is returned when a repair ID does not exist.
	ErrRepairNotFound = errors.New("repair not found")

	// ErrNoSelection is returned when update or delete is attempted
	// without a selected repair.
	ErrNoSelection = errors.New("no repair selected")

	// ErrInvalidCar is returned when the car selection is missing or
	// references a car that does not exist.
	ErrInvalidCar = errors.New("invalid car selection")

	// ErrInvalidCost is returned when the cost field fails validation.
	ErrInvalidCost = errors.New("invalid repair cost")

	// ErrInvalidDate is returned when the date field fails validation.
	ErrInvalidDate = errors.New("invalid repair date")

	// ErrInvalidCriteria is returned when report filters contradict
	// each other, such as a date range that ends before it starts.
	ErrInvalidCriteria = errors.New("invalid search criteria")
)
