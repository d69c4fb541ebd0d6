package client

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout reports that the origin did not answer within the deadline.
	ErrTimeout = errors.New("origin request timed out")
	// ErrOriginUnavailable reports that the breaker is refusing origin calls.
	ErrOriginUnavailable = errors.New("origin unavailable")
)

// StatusError is returned for origin responses with a 5xx status.
// Anything below 500 is delivered as content.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("origin returned status %d", e.StatusCode)
}
