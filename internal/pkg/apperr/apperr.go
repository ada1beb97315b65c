package apperr

import (
	"errors"
	"fmt"
)

// Stable machine-readable codes returned in API error envelopes.
const (
	CodeInvalidDateFormat     = "invalid_date_format"
	CodeInvalidTimeFormat     = "invalid_time_format"
	CodeEmptyPlace            = "empty_place"
	CodePlaceNotFound         = "place_not_found"
	CodeGeocodeTransportError = "geocode_transport_error"
	CodeGeocodeUnavailable    = "geocode_unavailable"
	CodeTimezoneUnresolved    = "timezone_unresolved"
	CodeEngineError           = "engine_error"
	CodeArtifactError         = "artifact_error"
	CodeNotFound              = "not_found"
	CodeMissingField          = "missing_field"
	CodeInvalidInitData       = "invalid_init_data"
	CodeExpiredInitData       = "expired_init_data"
	CodeServerMisconfigured   = "server_misconfigured"
	CodeInternal              = "internal_error"
)

// Error carries a stable code alongside a human message and an optional cause.
type Error struct {
	Code    string
	Message string
	cause   error
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on code so sentinels like apperr.New(CodeNotFound, "...") compare
// equal to any error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// CodeOf returns the stable code of err, or CodeInternal for plain errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
