package transport

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalServerError = errors.New("internal server error")
	ErrRetriesExhausted    = errors.New("retries exhausted")
)

// statusError maps an HTTP status to a package sentinel so callers can branch
// with errors.Is instead of parsing strings.
func statusError(status int, body string) error {
	switch status {
	case 400:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case 401, 403:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case 404:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case 429:
		return ErrRateLimitExceeded
	case 500, 502, 503, 504:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	}
	return fmt.Errorf("unexpected status %d: %s", status, body)
}
