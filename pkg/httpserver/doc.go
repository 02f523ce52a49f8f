// Package httpserver provides an http.Server wrapper with environment-driven
// configuration, graceful shutdown, and probe handlers.
package httpserver
