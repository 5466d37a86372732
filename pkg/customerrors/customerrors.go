package customerrors

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by the storage layer. Usecases translate these
// into APIErrors; they never reach the transport directly.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBlogNotFound   = errors.New("blog not found")
	ErrDuplicateUser  = errors.New("user already exists")
	ErrNoRowsAffected = errors.New("no rows affected")
)

// APIError is a domain failure carrying the HTTP status it should surface
// as. The centralized error handler turns it into the error envelope; any
// other error type is reported as a 500 without detail.
type APIError struct {
	Code    int    `json:"statusCode"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewValidation(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

func NewConflict(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

func NewUnauthorized(message string) *APIError {
	return &APIError{Code: http.StatusUnauthorized, Message: message}
}

func NewNotFound(message string) *APIError {
	return &APIError{Code: http.StatusNotFound, Message: message}
}

func NewRateLimited(message string) *APIError {
	return &APIError{Code: http.StatusTooManyRequests, Message: message}
}

func NewInternal(message string) *APIError {
	return &APIError{Code: http.StatusInternalServerError, Message: message}
}
