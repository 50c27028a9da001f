package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

// The three error kinds used across every component boundary in the gateway.
// No component returns a richer error vocabulary to its caller.
const (
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"-"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// BadRequest marks a caller-correctable problem; the message is safe to show
// to the client.
func BadRequest(message string) APIError {
	return APIError{Code: ErrBadRequest, Message: message}
}

// NotFound marks a named downstream resource that does not exist.
func NotFound(message string) APIError {
	return APIError{Code: ErrNotFound, Message: message}
}

// Internal wraps any other failure. The cause is kept in Details for logging
// and is never serialized to the client.
func Internal(cause error) APIError {
	return NewAPIError(ErrInternalServer, "internal server error", cause)
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrBadRequest:
			return http.StatusBadRequest
		case ErrNotFound:
			return http.StatusNotFound
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
