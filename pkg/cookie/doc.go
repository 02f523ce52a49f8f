// Package cookie provides an HTTP cookie manager with application-wide
// defaults and per-call overrides via functional options.
package cookie
