package validation

import (
	"strings"
	"time"
)

// ValidateTitle validates a goal title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return newError("title is required")
	}

	if len(trimmed) > 200 {
		return newError("title is too long (max 200 characters)")
	}

	return nil
}

// ValidateDay validates a "YYYY-MM-DD" calendar day string
func ValidateDay(day string) error {
	_, err := time.Parse("2006-01-02", day)
	if err != nil {
		return newError("invalid day format, expected YYYY-MM-DD")
	}
	return nil
}
