// Package mongo wraps connection setup for the official MongoDB driver with
// env-based configuration, startup retries, and a health check helper.
package mongo
