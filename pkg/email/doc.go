// Package email defines the outbound email contract and its two
// implementations: a Postmark client for production delivery and a
// development sender that writes messages to disk.
package email
