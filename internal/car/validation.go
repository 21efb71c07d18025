package car

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation constants.
const (
	// minYear is the build year of the first production automobile.
	minYear = 1886

	maxRegistrationLength = 20
	maxBrandLength        = 50
	maxModelLength        = 50
)

// ValidateParams checks car form fields in form order and returns the
// first failing rule. Uniqueness and owner existence are checked by the
// Registry, which holds the caches needed for them.
func ValidateParams(p Params) error {
	if err := ValidateRegistration(p.RegistrationNumber); err != nil {
		return err
	}
	if err := ValidateBrand(p.Brand); err != nil {
		return err
	}
	if err := ValidateModel(p.Model); err != nil {
		return err
	}
	if _, err := ValidateYear(p.Year); err != nil {
		return err
	}
	if p.OwnerID <= 0 {
		return fmt.Errorf("%w: an owner must be chosen", ErrInvalidOwner)
	}
	return nil
}

// ValidateRegistration checks that a registration number is present and
// within limits. Uniqueness is a separate, cache-backed check.
func ValidateRegistration(reg string) error {
	reg = strings.TrimSpace(reg)
	if reg == "" {
		return fmt.Errorf("%w: registration number cannot be empty", ErrInvalidRegistration)
	}
	if len(reg) > maxRegistrationLength {
		return fmt.Errorf("%w: registration number exceeds %d characters", ErrInvalidRegistration, maxRegistrationLength)
	}
	return nil
}

// ValidateBrand checks that a brand is present and within limits.
func ValidateBrand(brand string) error {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return fmt.Errorf("%w: brand cannot be empty", ErrInvalidBrand)
	}
	if len(brand) > maxBrandLength {
		return fmt.Errorf("%w: brand exceeds %d characters", ErrInvalidBrand, maxBrandLength)
	}
	return nil
}

// ValidateModel checks that a model is present and within limits.
func ValidateModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidModel)
	}
	if len(model) > maxModelLength {
		return fmt.Errorf("%w: model exceeds %d characters", ErrInvalidModel, maxModelLength)
	}
	return nil
}

// ValidateYear parses a year string and checks it falls between 1886 and
// the current calendar year. A parse failure is reported the same way as
// an out-of-range value.
func ValidateYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: year must be a whole number", ErrInvalidYear)
	}
	current := time.Now().Year()
	if year < minYear || year > current {
		return 0, fmt.Errorf("%w: year must be between %d and %d", ErrInvalidYear, minYear, current)
	}
	return year, nil
}
