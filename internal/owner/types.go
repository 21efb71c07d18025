package owner

import "time"

// Owner represents a person who owns one or more fleet vehicles.
// Phone and Email are optional; the empty string means not provided.
type Owner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Params is the raw form payload for creating or updating an owner.
// Values arrive as entered; validation and trimming happen in the Registry.
type Params struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Option pairs an owner id with its display label for selection pickers.
// The label is the owner's name; the id travels alongside it so callers
// never have to re-derive the key from the display string.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}
