package validation

import (
	"errors"
	"time"
)

const dayFormat = "2006-01-02"

// ValidateDay parses a calendar date in YYYY-MM-DD form. Any valid
// date is accepted, past or future.
func ValidateDay(day string) (time.Time, error) {
	if day == "" {
		return time.Time{}, errors.New("date is required")
	}

	t, err := time.Parse(dayFormat, day)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}

	return t, nil
}
