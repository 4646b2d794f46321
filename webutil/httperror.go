package webutil

import (
	"errors"
	"net/http"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/storage"
)

const (
	msgBadRequest         = "Bad Request"
	msgNotFound           = "Resource not found"
	msgInternalServer     = "Internal Server Error"
	msgUnauthorized       = "Unauthorized"
	msgInvalidCredentials = "Invalid credentials"
	msgUserExists         = "User already exists"
	msgCorruptData        = "Stored data is corrupt; reset required"
)

// Represents an error with an associated HTTP status code
// and a user-facing message.
type HTTPError struct {
	cause   error  // The underlying error, can be nil
	Code    int    // HTTP status code
	Message string // User-facing error message
}

// Implements the error interface.
// It returns the Message, which is intended for the HTTP response.
func (he HTTPError) Error() string {
	return he.Message
}

// Provides compatibility for errors.Is and errors.As.
func (he HTTPError) Unwrap() error {
	return he.cause
}

// Returns the defaultVal if the initial message is empty.
func defaultMessageIfEmpty(initialMsg, defaultVal string) string {
	if initialMsg == "" {
		return defaultVal
	}
	return initialMsg
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		cause:   errors.New(message),
		Code:    code,
		Message: message,
	}
}

// Creates a new HTTPError that wraps cause. message is what the client sees.
func NewHTTPErrorWrap(code int, message string, cause error) *HTTPError {
	return &HTTPError{
		cause:   cause,
		Code:    code,
		Message: message,
	}
}

func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, defaultMessageIfEmpty(message, msgBadRequest))
}

func ErrBadRequestWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusBadRequest, defaultMessageIfEmpty(message, msgBadRequest), cause)
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, defaultMessageIfEmpty(message, msgNotFound))
}

func ErrNotFoundWrap(message string, cause error) *HTTPError {
	return NewHTTPErrorWrap(http.StatusNotFound, defaultMessageIfEmpty(message, msgNotFound), cause)
}

func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, defaultMessageIfEmpty(message, msgUnauthorized))
}

// FromDomainError maps the datastore and storage sentinel errors onto HTTP
// errors with generic public messages. Handlers that know better (for
// example "Task not found") build their own HTTPError instead. Errors outside
// the taxonomy are returned unchanged.
func FromDomainError(err error) error {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, datastore.ErrInvalidInput):
		return ErrBadRequestWrap(msgBadRequest, err)
	case errors.Is(err, datastore.ErrNotFound):
		return ErrNotFoundWrap(msgNotFound, err)
	case errors.Is(err, datastore.ErrAlreadyExists):
		return ErrBadRequestWrap(msgUserExists, err)
	case errors.Is(err, datastore.ErrInvalidCredentials):
		return NewHTTPErrorWrap(http.StatusUnauthorized, msgInvalidCredentials, err)
	case errors.Is(err, storage.ErrCorruptData):
		return NewHTTPErrorWrap(http.StatusInternalServerError, msgCorruptData, err)
	default:
		return err
	}
}
