package core

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/validator"
)

// HTTPError is an error with a fixed HTTP status and a client-safe message.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string { return e.Message }

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest   = HTTPError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized = HTTPError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrForbidden    = HTTPError{Code: http.StatusForbidden, Message: "forbidden"}
	ErrNotFound     = HTTPError{Code: http.StatusNotFound, Message: "not found"}
	ErrConflict     = HTTPError{Code: http.StatusConflict, Message: "conflict"}
	ErrInternal     = HTTPError{Code: http.StatusInternalServerError, Message: "something went wrong"}
)

// ErrorRenderer converts errors into envelope responses. In debug mode
// unexpected errors are exposed verbatim; in production they are logged and
// replaced with a generic message.
type ErrorRenderer struct {
	log   *slog.Logger
	debug bool
}

// NewErrorRenderer builds an ErrorRenderer. A nil logger discards logs.
func NewErrorRenderer(log *slog.Logger, debug bool) *ErrorRenderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ErrorRenderer{log: log, debug: debug}
}

// Render writes the envelope for err. Validation failures become a 400 fail
// with per-field details; HTTPError keeps its code; anything else is a 500.
func (er *ErrorRenderer) Render(ctx context.Context, w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		JSON(w, http.StatusBadRequest, Envelope{
			Status:  StatusFail,
			Message: "validation failed",
			Data:    validationDetails(verrs),
		})
		return
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		JSON(w, httpErr.Code, Envelope{
			Status:  statusForCode(httpErr.Code),
			Message: httpErr.Message,
		})
		return
	}

	er.log.ErrorContext(ctx, "unexpected error", logger.Error(err))
	message := ErrInternal.Message
	if er.debug {
		message = err.Error()
	}
	JSON(w, http.StatusInternalServerError, Envelope{
		Status:  StatusError,
		Message: message,
	})
}

func statusForCode(code int) string {
	if code >= http.StatusInternalServerError {
		return StatusError
	}
	return StatusFail
}

func validationDetails(verrs validator.ValidationErrors) map[string][]string {
	details := make(map[string][]string, len(verrs))
	for _, ve := range verrs {
		details[ve.Field] = append(details[ve.Field], ve.Message)
	}
	return details
}
