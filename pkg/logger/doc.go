// Package logger builds configured slog.Logger instances with consistent
// output formats across environments, plus attribute helpers that keep log
// field names uniform throughout the application.
package logger
