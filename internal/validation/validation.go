package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength     = 255
	MaxEmailLength    = 255
	MinPasswordLength = 4
	MaxPasswordLength = 40
	// bcrypt refuses longer inputs.
	MaxPasswordBytes = 72
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ValidationError names the offending field and the constraint it broke.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// Required trims value and rejects blanks and values over max runes.
func Required(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ValidationError{Field: field, Constraint: "is required"}
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", ValidationError{Field: field, Constraint: fmt.Sprintf("must be at most %d characters", max)}
	}
	return value, nil
}

// Optional trims value; a blank result becomes nil.
func Optional(field string, value *string, max int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	if max > 0 && utf8.RuneCountInString(trimmed) > max {
		return nil, ValidationError{Field: field, Constraint: fmt.Sprintf("must be at most %d characters", max)}
	}
	return &trimmed, nil
}

func Email(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ValidationError{Field: "email", Constraint: "is required"}
	}
	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return "", ValidationError{Field: "email", Constraint: "must be a valid email address"}
	}
	return strings.ToLower(email), nil
}

func Password(password string) error {
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength || length > MaxPasswordLength {
		return ValidationError{
			Field:      "password",
			Constraint: fmt.Sprintf("must be between %d and %d characters", MinPasswordLength, MaxPasswordLength),
		}
	}
	if len(password) > MaxPasswordBytes {
		return ValidationError{
			Field:      "password",
			Constraint: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes),
		}
	}
	return nil
}

// Color accepts "#RRGGBB" and returns it upper-cased.
func Color(color string) (string, error) {
	color = strings.TrimSpace(color)
	if !colorRegex.MatchString(color) {
		return "", ValidationError{Field: "color", Constraint: "must be a 6-digit hex code like #3B82F6"}
	}
	return strings.ToUpper(color), nil
}
