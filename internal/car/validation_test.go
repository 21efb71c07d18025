package car

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "AB1234", false},
		{"with trim", "  AB1234  ", false},
		{"max length", strings.Repeat("A", 20), false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("A", 21), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegistration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRegistration) {
				t.Errorf("ValidateRegistration(%q) error = %v, want ErrInvalidRegistration", tt.input, err)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	current := time.Now().Year()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"first car year", "1886", 1886, false},
		{"before first car", "1885", 0, true},
		{"current year", strconv.Itoa(current), current, false},
		{"next year", strconv.Itoa(current + 1), 0, true},
		{"not a number", "19xx", 0, true},
		{"empty", "", 0, true},
		{"decimal", "2019.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateYear(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateYear(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidYear) {
					t.Errorf("ValidateYear(%q) error = %v, want ErrInvalidYear", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidateYear(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateParams_FieldOrder(t *testing.T) {
	// Everything is wrong; the registration rule fires first.
	err := ValidateParams(Params{})
	if !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("ValidateParams(empty) error = %v, want ErrInvalidRegistration", err)
	}

	err = ValidateParams(Params{RegistrationNumber: "AB1234"})
	if !errors.Is(err, ErrInvalidBrand) {
		t.Errorf("ValidateParams() error = %v, want ErrInvalidBrand", err)
	}

	err = ValidateParams(Params{RegistrationNumber: "AB1234", Brand: "Dacia"})
	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("ValidateParams() error = %v, want ErrInvalidModel", err)
	}

	err = ValidateParams(Params{RegistrationNumber: "AB1234", Brand: "Dacia", Model: "Logan", Year: "1700"})
	if !errors.Is(err, ErrInvalidYear) {
		t.Errorf("ValidateParams() error = %v, want ErrInvalidYear", err)
	}

	err = ValidateParams(Params{RegistrationNumber: "AB1234", Brand: "Dacia", Model: "Logan", Year: "2019"})
	if !errors.Is(err, ErrInvalidOwner) {
		t.Errorf("ValidateParams() error = %v, want ErrInvalidOwner", err)
	}

	err = ValidateParams(Params{RegistrationNumber: "AB1234", Brand: "Dacia", Model: "Logan", Year: "2019", OwnerID: 1})
	if err != nil {
		t.Fatalf("ValidateParams(valid) error: %v", err)
	}
}

func TestCarLabel(t *testing.T) {
	c := &Car{RegistrationNumber: "AB1234", Brand: "Dacia", Model: "Logan"}
	if got := c.Label(); got != "Dacia Logan (AB1234)" {
		t.Errorf("Label() = %q", got)
	}
}
