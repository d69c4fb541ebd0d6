package session

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// Session is one client's browsing context against the origin.
// The cookie jar belongs to this session alone.
type Session struct {
	ID        string
	Jar       http.CookieJar
	CreatedAt time.Time
	ExpiresAt time.Time

	lastUsed atomic.Int64
	// sem is a single-slot semaphore held for a whole origin exchange.
	sem chan struct{}
}

// Metadata is the externally visible view of a session.
type Metadata struct {
	CreatedAt time.Time `json:"createdAt"`
	LastUsed  time.Time `json:"lastUsed"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newSession(id string, jar http.CookieJar, now time.Time, ttl time.Duration) *Session {
	s := &Session{
		ID:        id,
		Jar:       jar,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		sem:       make(chan struct{}, 1),
	}
	s.touch(now)
	return s
}

// LastUsed returns the time of the most recent lookup.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// Expired reports whether the absolute lifetime has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Metadata snapshots the session timestamps.
func (s *Session) Metadata() Metadata {
	return Metadata{
		CreatedAt: s.CreatedAt,
		LastUsed:  s.LastUsed(),
		ExpiresAt: s.ExpiresAt,
	}
}

// Acquire blocks until the caller holds the session exclusively or ctx ends.
// The returned release func must be called exactly once.
func (s *Session) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case s.sem <- struct{}{}:
		return func() { <-s.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
