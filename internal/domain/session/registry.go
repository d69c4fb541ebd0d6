package session

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
)

// DefaultTTL is the absolute session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

// Observer receives registry lifecycle events. The active argument is the
// registry size after the event.
type Observer interface {
	SessionCreated(active int)
	SessionsEvicted(expired int, active int)
	SessionInvalidated(active int)
}

// Options configures a Registry.
type Options struct {
	TTL      time.Duration
	Observer Observer
	Logger   *logging.Logger
}

// Registry owns every live session. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	observer Observer
	logger   *logging.Logger

	now   func() time.Time
	newID func() (string, error)
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      opts.TTL,
		observer: opts.Observer,
		logger:   opts.Logger.Named("session"),
		now:      time.Now,
		newID:    randomID,
	}
}

// randomID returns 128 random bits as 32 lowercase hex characters.
func randomID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(u[:]), nil
}

// Create registers a new session with an empty cookie jar.
func (r *Registry) Create() (*Session, error) {
	id, err := r.newID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	s := newSession(id, jar, r.now(), r.ttl)

	r.mu.Lock()
	r.sessions[id] = s
	active := len(r.sessions)
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.SessionCreated(active)
	}
	r.logger.Info("Session created", logging.Session(id), zap.Time("expires_at", s.ExpiresAt))
	return s, nil
}

// Get returns the session and bumps its last-used time. Expired sessions are
// evicted here and reported as missing.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	now := r.now()

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.Expired(now) {
		r.evict(id, s)
		return nil, false
	}

	s.touch(now)
	return s, true
}

// Invalidate removes a session. Unknown IDs are ignored.
func (r *Registry) Invalidate(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	active := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	if r.observer != nil {
		r.observer.SessionInvalidated(active)
	}
	r.logger.Info("Session invalidated", logging.Session(id))
}

// Len returns the number of registered sessions, expired ones included until
// they are evicted.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts every expired session and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	active := len(r.sessions)
	r.mu.Unlock()

	if removed > 0 {
		if r.observer != nil {
			r.observer.SessionsEvicted(removed, active)
		}
		r.logger.Debug("Swept expired sessions", zap.Int("removed", removed), zap.Int("active", active))
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) evict(id string, s *Session) {
	r.mu.Lock()
	// Only remove the exact record we saw expire.
	current, ok := r.sessions[id]
	if ok && current == s {
		delete(r.sessions, id)
	}
	active := len(r.sessions)
	r.mu.Unlock()

	if ok && current == s {
		if r.observer != nil {
			r.observer.SessionsEvicted(1, active)
		}
		r.logger.Info("Session expired", logging.Session(id))
	}
}
