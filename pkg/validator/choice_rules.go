package validator

import (
	"fmt"
	"slices"
	"strings"
)

// InListString validates that a string value is one of the allowed choices.
func InListString(field, value string, allowedValues []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowedValues, value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(allowedValues, ", ")),
		},
	}
}
