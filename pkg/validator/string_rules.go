package validator

import (
	"fmt"
	"strings"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
		},
	}
}

func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters long", min),
		},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
		},
	}
}

// EqualStrings validates that two related fields carry the same value,
// e.g. a password and its confirmation.
func EqualStrings(field, value, other string) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: ValidationError{
			Field:   field,
			Message: "fields do not match",
		},
	}
}
