// Package validate holds the pure field validators shared by the domain
// operations. Every failure is a ValidationError naming the field and the
// violated constraint.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
)

// Deliberately permissive: local@domain.tld, nothing more.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const dateOnlyLayout = "2006-01-02"

// NonEmpty fails when value is empty or whitespace-only.
func NonEmpty(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation("%s is required", field)
	}
	return nil
}

// Length fails when the trimmed length of value is outside [min, max].
func Length(value, field string, min, max int) error {
	n := len(strings.TrimSpace(value))
	if n < min || n > max {
		return apperr.Validation("%s must be between %d and %d characters", field, min, max)
	}
	return nil
}

// Email fails when value does not look like local@domain.tld.
func Email(value string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return apperr.Validation("email must be a valid email address")
	}
	return nil
}

// OneOf fails when value is not in allowed. Callers skip it for absent
// optional fields.
func OneOf[T ~string](value T, field string, allowed ...T) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return apperr.Validation("%s must be one of: %s", field, joinValues(allowed))
}

// ParseDate parses an ISO-8601 date or timestamp. It reports whether the
// value carried a time component.
func ParseDate(value, field string) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if t, perr := time.Parse(dateOnlyLayout, value); perr == nil {
		return t, true, nil
	}
	if t, perr := time.Parse(time.RFC3339, value); perr == nil {
		return t, false, nil
	}
	return time.Time{}, false, apperr.Validation("%s must be an ISO-8601 date", field)
}

// FutureDate fails when value is unparsable or strictly before now. Date-only
// values are compared at day granularity (today is acceptable); timestamps are
// compared against the full instant.
func FutureDate(value, field string, now time.Time) error {
	t, dateOnly, err := ParseDate(value, field)
	if err != nil {
		return err
	}
	if dateOnly {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if t.Before(today) {
			return apperr.Validation("%s must not be in the past", field)
		}
		return nil
	}
	if t.Before(now) {
		return apperr.Validation("%s must not be in the past", field)
	}
	return nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(parts, ", ")
}
