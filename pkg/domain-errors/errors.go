// Package domainerrors defines the typed failure codes the admission core
// returns to its callers. Services and stores return these instead of raw
// store errors so the presentation layer can render outcomes without
// inspecting error strings.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a business outcome or failure class.
type Code string

const (
	// CodeForbidden: caller lacks the capability or club ownership. Hard
	// stop before any mutation.
	CodeForbidden Code = "forbidden"

	// CodeBadRequest: missing or malformed identifier or body.
	CodeBadRequest Code = "bad_request"

	// CodeNoSelection: a bulk call was submitted with no items.
	CodeNoSelection Code = "no_selection"

	// CodeNotFound: the club or licence id does not resolve.
	CodeNotFound Code = "not_found"

	// CodeInvalidStatus: the record's current status is not eligible for
	// the requested transition.
	CodeInvalidStatus Code = "invalid_status"

	// CodeUnpaid: the licence is neither quota-included nor paid.
	CodeUnpaid Code = "unpaid"

	// CodeUpdateFailed: every precondition passed but the store write
	// failed. The wrapped cause is kept for diagnostic logging and never
	// echoed to the end user.
	CodeUpdateFailed Code = "update_failed"

	// CodeConflict: a uniqueness or state conflict at the store boundary.
	CodeConflict Code = "conflict"

	// CodeInternal: unexpected failure with no business meaning.
	CodeInternal Code = "internal"
)

// Error carries a Code plus a caller-safe message. The wrapped cause, if
// any, is reachable through errors.Unwrap for logging.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a code-tagged error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-safe message to an underlying error.
// A nil err yields nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readable alias for HasCode at call sites.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for
// untagged errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code onto the status the transport layer should emit.
func HTTPStatus(code Code) int {
	switch code {
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBadRequest, CodeNoSelection:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidStatus, CodeConflict:
		return http.StatusConflict
	case CodeUnpaid:
		return http.StatusPaymentRequired
	case CodeUpdateFailed, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-safe message for err; untagged errors map to
// a generic message so store internals never leak.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
