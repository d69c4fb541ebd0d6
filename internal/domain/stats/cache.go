// Package stats serves the small dashboard figures the client shows on its
// home screen, cached in memory per user.
//
// The figures are fixed demo values; the cache only records that a user has
// fetched them, so the second lookup reports "cache" as its source.
package stats

import (
	"errors"
	"fmt"
	"sync"
)

// Source tells the client where a value came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceOrigin Source = "erp"
)

// DefaultUserID is used when the client sends no user.
const DefaultUserID = "default"

// ErrUnknownType is returned for a stat kind the portal does not expose.
var ErrUnknownType = errors.New("unknown stats type")

var demoValues = map[string]string{
	"attendance": "85%",
	"results":    "GPA: 8.5",
	"fees":       "Pending: 0",
}

// Result is the payload of a stats lookup.
type Result struct {
	Source Source `json:"source"`
	Data   string `json:"data"`
}

// Recorder observes lookups.
type Recorder interface {
	RecordStatsLookup(source string)
}

// Cache is an unbounded in-memory map keyed by user and kind.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]string
	recorder Recorder
}

// NewCache creates an empty cache. recorder may be nil.
func NewCache(recorder Recorder) *Cache {
	return &Cache{
		entries:  make(map[string]string),
		recorder: recorder,
	}
}

// Types lists the supported kinds.
func Types() []string {
	return []string{"attendance", "results", "fees"}
}

// Lookup returns the value for userID and kind, filling the cache on a miss.
func (c *Cache) Lookup(userID, kind string) (Result, error) {
	value, ok := demoValues[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if userID == "" {
		userID = DefaultUserID
	}
	key := userID + "-" + kind

	c.mu.RLock()
	cached, hit := c.entries[key]
	c.mu.RUnlock()
	if hit {
		c.record(SourceCache)
		return Result{Source: SourceCache, Data: cached}, nil
	}

	c.mu.Lock()
	// Another request may have filled the entry in between.
	if cached, hit = c.entries[key]; hit {
		c.mu.Unlock()
		c.record(SourceCache)
		return Result{Source: SourceCache, Data: cached}, nil
	}
	c.entries[key] = value
	c.mu.Unlock()

	c.record(SourceOrigin)
	return Result{Source: SourceOrigin, Data: value}, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) record(source Source) {
	if c.recorder != nil {
		c.recorder.RecordStatsLookup(string(source))
	}
}
