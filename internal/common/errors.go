package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrRateLimited    = errors.New("rate limited")

	// Revision errors
	ErrNotVisible      = errors.New("repository is not visible")
	ErrAlreadyVerified = errors.New("revision is already verified")
	ErrStaleEdit       = errors.New("target revision is not the current revision")

	// Language errors
	ErrLanguageNotFound = errors.New("language not found")
	ErrLanguageInactive = errors.New("language is deactivated")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// StatusCode maps an error from the service layer to an HTTP status.
// privileged callers get a distinct conflict status for invisible repositories,
// everyone else sees a plain 404.
func StatusCode(err error, privileged bool) int {
	switch {
	case errors.Is(err, ErrNotVisible):
		if privileged {
			return http.StatusConflict
		}
		return http.StatusNotFound
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLanguageNotFound), errors.Is(err, ErrLanguageInactive):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyVerified), errors.Is(err, ErrStaleEdit):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
