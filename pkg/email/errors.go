package email

import "errors"

var (
	// ErrFailedToSendEmail is the delivery failure surfaced to callers; the
	// underlying transport error is joined onto it.
	ErrFailedToSendEmail = errors.New("email: failed to send")

	// ErrInvalidConfig indicates missing or malformed sender configuration.
	ErrInvalidConfig = errors.New("email: invalid config")

	// ErrInvalidParams indicates the message parameters cannot be delivered.
	ErrInvalidParams = errors.New("email: invalid send parameters")
)
