// Package core defines the JSON response envelope and the error-to-response
// mapping shared by all HTTP handlers.
package core
