// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrDuplicate           = errors.New("duplicate entry")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrIdentifierExhausted = errors.New("identifier generation exhausted")
	ErrTooManyRequests     = errors.New("too many requests")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Invalid Credentials", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrIdentifierExhausted):
		Problem(w, http.StatusConflict, "Identifier Exhausted", "could not allocate a unique identifier, please resubmit")
	case errors.Is(err, ErrTooManyRequests):
		Problem(w, http.StatusTooManyRequests, "Too Many Requests", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
