// Package shared holds the response helpers every handler uses so outcome
// codes serialize the same way across the API.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "affilia/pkg/domain-errors"
)

// ErrorResponse is the uniform failure body. Extra carries
// outcome-specific detail such as missing document types.
type ErrorResponse struct {
	Code    dErrors.Code   `json:"code"`
	Message string         `json:"message"`
	Extra   map[string]any `json:"-"`
}

// WriteError renders err's outcome code and caller-safe message. Wrapped
// store errors never reach the response body.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.HTTPStatus(code), map[string]any{
		"code":    code,
		"message": dErrors.Message(err),
	})
}

// WriteErrorExtra renders err plus outcome-specific fields merged into the
// body.
func WriteErrorExtra(w http.ResponseWriter, err error, extra map[string]any) {
	code := dErrors.CodeOf(err)
	body := map[string]any{
		"code":    code,
		"message": dErrors.Message(err),
	}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, dErrors.HTTPStatus(code), body)
}

// WriteJSON renders a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
