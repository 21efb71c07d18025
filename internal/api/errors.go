package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetcore/internal/car"
	"fleetcore/internal/owner"
	"fleetcore/internal/repair"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
	ErrCodeValidation = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// validationErrs are the field-rule sentinels; they map to 422.
var validationErrs = []error{
	owner.ErrInvalidName, owner.ErrInvalidPhone, owner.ErrInvalidEmail,
	car.ErrInvalidRegistration, car.ErrInvalidBrand, car.ErrInvalidModel,
	car.ErrInvalidYear, car.ErrInvalidOwner,
	repair.ErrInvalidCar, repair.ErrInvalidCost, repair.ErrInvalidDate,
}

// writeDomainError maps registry sentinel errors onto HTTP responses.
// Unknown errors become 500 and are logged by the caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, owner.ErrOwnerNotFound),
		errors.Is(err, car.ErrCarNotFound),
		errors.Is(err, repair.ErrRepairNotFound):
		writeNotFound(w, err.Error())

	case errors.Is(err, owner.ErrOwnerHasCars),
		errors.Is(err, car.ErrCarHasRepairs),
		errors.Is(err, car.ErrDuplicateRegistration):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, owner.ErrNoSelection),
		errors.Is(err, car.ErrNoSelection),
		errors.Is(err, repair.ErrNoSelection),
		errors.Is(err, repair.ErrInvalidCriteria):
		writeBadRequest(w, err.Error())

	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())

	default:
		writeInternalError(w, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// isInternal reports whether writeDomainError would respond with a 500,
// so handlers know to log the cause.
func isInternal(err error) bool {
	known := append([]error{
		owner.ErrOwnerNotFound, car.ErrCarNotFound, repair.ErrRepairNotFound,
		owner.ErrOwnerHasCars, car.ErrCarHasRepairs, car.ErrDuplicateRegistration,
		owner.ErrNoSelection, car.ErrNoSelection, repair.ErrNoSelection,
		repair.ErrInvalidCriteria,
	}, validationErrs...)
	for _, sentinel := range known {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	return true
}
