// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may be any JSON shape (a student, a page, stats...).
// Error responses always look like:
//
//	{ "error": "Student not found" }
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/classroom-api/internal/errs"
)

// Response is the envelope returned for error cases.
type Response struct {
	Error string `json:"error"`
}

// MsgInternal is sent for every error that is not a kinded errs.Error.
const MsgInternal = "Internal server error"

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps a message into the error envelope.
func GeneralError(msg string) Response {
	return Response{Error: msg}
}

// Status maps an error kind to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error writes err with the status of its kind.
//
// Kinded errors carry their own client-facing message. Anything else is
// logged and hidden behind a generic 500 so internal details never leak.
// ─────────────────────────────────────────────────────────────────────────────
func Error(w http.ResponseWriter, err error) {
	msg, ok := errs.Message(err)
	if !ok {
		slog.Error("unhandled error", slog.String("error", err.Error()))
		WriteJSON(w, http.StatusInternalServerError, GeneralError(MsgInternal))
		return
	}

	WriteJSON(w, Status(err), GeneralError(msg))
}
