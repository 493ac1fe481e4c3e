// Package request holds helpers for reading HTTP requests.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/classroom-api/internal/errs"
)

// ErrEmptyBody is the cause of the error DecodeJSON returns for an empty body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into dst. An empty body or malformed
// JSON becomes a validation error.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)

	// io.EOF means the body was completely empty.
	if errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ErrValidation, ErrEmptyBody.Error(), ErrEmptyBody)
	}
	if err != nil {
		return errs.Wrap(errs.ErrValidation, "invalid JSON body", err)
	}

	return nil
}

// IntQuery returns the integer query parameter key, or def when it is
// absent, not an integer, or zero.
func IntQuery(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v == 0 {
		return def
	}
	return v
}
