package owner

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants.
const (
	maxNameLength  = 100
	maxPhoneDigits = 10
	maxEmailLength = 100
	phonePattern   = `^[0-9]{0,10}$`
	emailPattern   = `^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`
)

var (
	phoneRegex = regexp.MustCompile(phonePattern)
	emailRegex = regexp.MustCompile(emailPattern)
)

// ValidateParams checks owner form fields in form order and returns the
// first failing rule. Name is required; phone and email may be blank.
func ValidateParams(p Params) error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if err := ValidatePhone(p.Phone); err != nil {
		return err
	}
	return ValidateEmail(p.Email)
}

// ValidateName checks that an owner name is present and within limits.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidatePhone checks that a phone is blank or up to ten digit characters.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: phone must be up to %d digits", ErrInvalidPhone, maxPhoneDigits)
	}
	return nil
}

// ValidateEmail checks that an email is blank or shaped like local@domain.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email exceeds %d characters", ErrInvalidEmail, maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: email must look like local@domain", ErrInvalidEmail)
	}
	return nil
}
