package car

import (
	"fmt"
	"time"
)

// Car represents a fleet vehicle.
// OwnerName is denormalized from the owners table for display; it is
// filled by repository queries and never written back.
type Car struct {
	ID                 int64     `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	OwnerID            int64     `json:"owner_id"`
	OwnerName          string    `json:"owner_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Label synthesizes the picker text for this car: "Brand Model (RegNo)".
func (c *Car) Label() string {
	return fmt.Sprintf("%s %s (%s)", c.Brand, c.Model, c.RegistrationNumber)
}

// Params is the raw form payload for creating or updating a car.
// Year arrives as entered; OwnerID carries the typed picker selection,
// where zero means the non-selectable "choose" placeholder.
type Params struct {
	RegistrationNumber string `json:"registration_number"`
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	Year               string `json:"year"`
	OwnerID            int64  `json:"owner_id"`
}

// Option pairs a car id with its display label for selection pickers.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}
