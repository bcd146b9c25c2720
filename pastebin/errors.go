package pastebin

import (
	"fmt"

	"github.com/pkg/errors"
)

// BadRequestMarker prefixes every error line the service returns.
const BadRequestMarker = "Bad API request"

// ErrorCode represents the kind of failure that occurred.
type ErrorCode int

const (
	// ErrUnknown is an unknown error.
	ErrUnknown ErrorCode = iota
	// ErrConnection is returned when the service could not be reached.
	ErrConnection
	// ErrEmptyResponse is returned when the service answered with no lines.
	ErrEmptyResponse
	// ErrAPIRequest is returned when the service rejected the request.
	ErrAPIRequest
	// ErrNotFound is returned when no paste carries the requested title.
	ErrNotFound
	// ErrMalformedResponse is returned when a list response cannot be parsed.
	ErrMalformedResponse
)

func (c ErrorCode) String() string {
	switch c {
	case ErrConnection:
		return "connection error"
	case ErrEmptyResponse:
		return "empty response"
	case ErrAPIRequest:
		return "api request error"
	case ErrNotFound:
		return "not found"
	case ErrMalformedResponse:
		return "malformed response"
	default:
		return "unknown error"
	}
}

// Error represents an error raised by the client.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pastebin: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("pastebin: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsConnectionError returns true if the service could not be reached.
func IsConnectionError(err error) bool {
	return hasCode(err, ErrConnection)
}

// IsEmptyResponse returns true if the service answered with nothing.
func IsEmptyResponse(err error) bool {
	return hasCode(err, ErrEmptyResponse)
}

// IsAPIRequestError returns true if the service rejected the request.
// The service's own text is available in Error.Message.
func IsAPIRequestError(err error) bool {
	return hasCode(err, ErrAPIRequest)
}

// IsNotFound returns true if a lookup by title found nothing.
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsMalformedResponse returns true if a list response could not be parsed.
func IsMalformedResponse(err error) bool {
	return hasCode(err, ErrMalformedResponse)
}
