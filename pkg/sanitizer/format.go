package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail lowercases an email address and cleans up the local part.
// Malformed input is returned lowercased and trimmed so that validation can
// reject it with a proper message.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	domain := parts[1]

	// Consolidate consecutive dots to prevent delivery failures
	local = dotRegex.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims
// the result. Used for free-text fields like titles before validation.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
