package repair

import (
	"fmt"
	"strings"
	"time"
)

// ValidateParams runs the form rules in field order and stops at the
// first failure: car selection, then cost, then date. On success it
// returns the parsed cost in cents and the service date, with a blank
// date defaulted to today.
func ValidateParams(p Params) (int64, time.Time, error) {
	if p.CarID <= 0 {
		return 0, time.Time{}, fmt.Errorf("%w: a car must be chosen", ErrInvalidCar)
	}

	cents, err := ValidateCost(p.Cost)
	if err != nil {
		return 0, time.Time{}, err
	}

	date, err := ValidateDate(p.Date)
	if err != nil {
		return 0, time.Time{}, err
	}

	return cents, date, nil
}

// ValidateCost parses a cost string and checks it is not negative.
func ValidateCost(raw string) (int64, error) {
	cents, err := ParseCost(raw)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, fmt.Errorf("%w: cost cannot be negative", ErrInvalidCost)
	}
	return cents, nil
}

// ParseCost converts a decimal money string like "149.50" to whole
// cents. At most two fraction digits are accepted; grouping characters
// and currency symbols are not.
func ParseCost(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: cost is required", ErrInvalidCost)
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCost, raw)
	}
	if hasFrac && len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidCost, raw)
	}

	var units int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCost, raw)
		}
		units = units*10 + int64(c-'0')
		if units > 1<<53 {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidCost, raw)
		}
	}

	cents := units * 100
	scale := int64(10)
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCost, raw)
		}
		cents += int64(c-'0') * scale
		scale /= 10
	}

	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatCost renders cents as a plain decimal string, two places.
func FormatCost(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ValidateDate parses a service date in DateLayout form. A blank value
// defaults to today. Dates in the future are rejected.
func ValidateDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	today := truncateToDay(time.Now())
	if s == "" {
		return today, nil
	}

	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid date (want YYYY-MM-DD)", ErrInvalidDate, raw)
	}
	if d.After(today) {
		return time.Time{}, fmt.Errorf("%w: %s is in the future", ErrInvalidDate, s)
	}
	return d, nil
}

// ValidateCriteria checks that the optional report filters are
// internally consistent.
func ValidateCriteria(c SearchCriteria) error {
	if !c.DateFrom.IsZero() && !c.DateTo.IsZero() && c.DateTo.Before(c.DateFrom) {
		return fmt.Errorf("%w: date range ends before it starts", ErrInvalidCriteria)
	}
	if c.MinCostCents != nil && *c.MinCostCents < 0 {
		return fmt.Errorf("%w: minimum cost cannot be negative", ErrInvalidCriteria)
	}
	if c.MaxCostCents != nil && *c.MaxCostCents < 0 {
		return fmt.Errorf("%w: maximum cost cannot be negative", ErrInvalidCriteria)
	}
	if c.MinCostCents != nil && c.MaxCostCents != nil && *c.MaxCostCents < *c.MinCostCents {
		return fmt.Errorf("%w: cost range ends below its minimum", ErrInvalidCriteria)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
