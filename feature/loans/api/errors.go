package api

import (
	"fmt"
	"net/http"
)

// AuthenticationError reports a login that did not yield a usable token.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// TransportError reports a non-success HTTP status.
type TransportError struct {
	Op         string
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Op, e.StatusCode)
}

// IsAuthExpired reports whether the status means the token is no longer accepted.
func (e *TransportError) IsAuthExpired() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
