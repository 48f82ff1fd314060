package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedSource = errors.New("malformed source review")
	ErrMissingID       = errors.New("missing id")
)

// Error codes surfaced to API clients.
const (
	CodeNoAPIKey           = "NO_API_KEY"
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeNetwork            = "NETWORK"
	CodeParse              = "PARSE"
	CodeGoogleError        = "GOOGLE_ERROR"
	CodeMissingPlaceID     = "MISSING_PLACE_ID"
)

// HTTPCode returns the HTTP_<status> code for a non-success upstream status.
func HTTPCode(status int) string { return fmt.Sprintf("HTTP_%d", status) }

// UpstreamError is a structured failure from an upstream API or its configuration.
type UpstreamError struct {
	Code       string
	Message    string
	HTTPStatus int    // upstream status, 0 when no response was received
	Raw        string // bounded excerpt of an unparseable body
	Upstream   any    // parsed upstream body
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsCode reports whether err is an UpstreamError with the given code.
func IsCode(err error, code string) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Code == code
}
