package calendly

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuth marks an invalid or expired API token. It aborts a fetch
// immediately and is never retried.
var ErrAuth = errors.New("invalid or expired Calendly credentials")

// APIError is a non-2xx response from the Calendly API.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendly: %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrAuth
	}
	return nil
}
