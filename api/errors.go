package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ErrNoAdmin is returned when the user lookup does not return any admin user.
var ErrNoAdmin = errors.New("no user with admin role")

// HTTPError is a non-2xx response from the scheduling API.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v %v: %v %v", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("%v %v: %v %v (%v)", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsTransient returns true for failures that may succeed if retried, i.e.
// network errors, timeouts, 429 Too Many Requests and 5xx responses.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode == http.StatusTooManyRequests || herr.StatusCode >= 500
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return true
	}

	var nerr net.Error

	return errors.As(err, &nerr)
}
