package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for transport-level reporting.
var (
	ErrOffline      = errors.New("catalog offline")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// RemoteError wraps non-specific remote errors with their status code.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog error %d", e.StatusCode)
}
