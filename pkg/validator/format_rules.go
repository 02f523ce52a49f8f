package validator

import (
	"net/mail"
	"strings"
)

// ValidEmail validates that a string is a valid email address using RFC 5322
// parsing plus the practical constraints web applications expect.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 {
				return false
			}

			localPart := parts[0]
			domain := parts[1]

			if localPart == "" {
				return false
			}

			// Domain must contain at least one dot and cannot start/end with one
			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}

			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}
