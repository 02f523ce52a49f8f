package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc defines a function that extracts a token from an HTTP request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// BearerTokenExtractor extracts JWT tokens from "Authorization: Bearer <token>"
// headers, the standard transport per RFC 6750.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// CookieTokenExtractor creates a token extractor for cookie-based JWT
// transport, used by browser clients where Authorization headers are not
// practical.
func CookieTokenExtractor(cookieName string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			return "", ErrNoToken
		}
		return cookie.Value, nil
	}
}

// ChainedExtractor tries each extractor in order and returns the first token
// found. ErrNoToken is returned only when every extractor came up empty.
func ChainedExtractor(extractors ...TokenExtractorFunc) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		for _, extract := range extractors {
			token, err := extract(r)
			if err == nil {
				return token, nil
			}
			if err != ErrNoToken {
				return "", err
			}
		}
		return "", ErrNoToken
	}
}
