package proxy

import "errors"

var (
	// ErrMissingTarget means the request named no URL to fetch.
	ErrMissingTarget = errors.New("URL required")
	// ErrInvalidTarget means the URL cannot be proxied (bad syntax or scheme).
	ErrInvalidTarget = errors.New("invalid target URL")
	// ErrEmptyResponse means the origin answered without a body.
	ErrEmptyResponse = errors.New("empty response from origin")
)

// OriginError wraps any failure talking to the origin.
type OriginError struct {
	Target string
	Err    error
}

func (e *OriginError) Error() string {
	return e.Err.Error()
}

func (e *OriginError) Unwrap() error {
	return e.Err
}
