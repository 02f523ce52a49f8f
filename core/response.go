package core

import (
	"encoding/json"
	"net/http"
)

// Envelope statuses. "success" is used for 2xx responses, "fail" for client
// errors (4xx), and "error" for server errors (5xx).
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the standard JSON response body.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes an arbitrary envelope with the given HTTP status code.
func JSON(w http.ResponseWriter, code int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Success writes a success envelope carrying data.
func Success(w http.ResponseWriter, code int, data any) {
	JSON(w, code, Envelope{Status: StatusSuccess, Data: data})
}

// SuccessMessage writes a success envelope carrying only a message.
func SuccessMessage(w http.ResponseWriter, code int, message string) {
	JSON(w, code, Envelope{Status: StatusSuccess, Message: message})
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON parses a JSON request body into dst. It rejects bodies over
// maxBodyBytes and returns ErrBadRequest-compatible parse failures.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

const maxBodyBytes = 1 << 20 // 1 MiB
