// Package id generates request identifiers.
//
// Request IDs are prefixed ULIDs ("req_01HV..."), so they sort by arrival time
// and read cleanly in logs. Session identifiers are deliberately not generated
// here: they are bearer credentials and come from the session registry.
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies one inbound HTTP request
type RequestID string

// RequestPrefix marks request IDs in logs and response headers.
const RequestPrefix = "req"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator seeded from crypto/rand.
// Monotonic entropy keeps IDs minted in the same millisecond ordered.
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (r RequestID) String() string { return string(r) }

// ParseRequestID validates an ID supplied by a client or upstream proxy.
// Anything that is not a well-formed request ID is rejected so arbitrary
// header values never reach the logs.
func ParseRequestID(raw string) (RequestID, bool) {
	body, ok := strings.CutPrefix(raw, RequestPrefix+"_")
	if !ok {
		return "", false
	}
	if _, err := ulid.ParseStrict(body); err != nil {
		return "", false
	}
	return RequestID(raw), true
}

// Timestamp extracts the creation time from a request ID
func (r RequestID) Timestamp() (time.Time, error) {
	parsed, err := ulid.ParseStrict(strings.TrimPrefix(string(r), RequestPrefix+"_"))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
