package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordStatsLookup(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[source]++
}

func TestLookupFillsThenHits(t *testing.T) {
	rec := &countingRecorder{}
	c := NewCache(rec)

	first, err := c.Lookup("21cse001", "attendance")
	require.NoError(t, err)
	assert.Equal(t, Result{Source: SourceOrigin, Data: "85%"}, first)

	second, err := c.Lookup("21cse001", "attendance")
	require.NoError(t, err)
	assert.Equal(t, Result{Source: SourceCache, Data: "85%"}, second)

	assert.Equal(t, map[string]int{"erp": 1, "cache": 1}, rec.counts)
}

func TestLookupValues(t *testing.T) {
	c := NewCache(nil)
	want := map[string]string{"attendance": "85%", "results": "GPA: 8.5", "fees": "Pending: 0"}

	for _, kind := range Types() {
		res, err := c.Lookup("u", kind)
		require.NoError(t, err)
		assert.Equal(t, want[kind], res.Data)
	}
}

func TestLookupKeysByUser(t *testing.T) {
	c := NewCache(nil)

	_, err := c.Lookup("alice", "fees")
	require.NoError(t, err)
	res, err := c.Lookup("bob", "fees")
	require.NoError(t, err)
	assert.Equal(t, SourceOrigin, res.Source)

	// An empty user shares the default entry.
	_, err = c.Lookup("", "fees")
	require.NoError(t, err)
	res, err = c.Lookup(DefaultUserID, "fees")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, res.Source)
	assert.Equal(t, 3, c.Len())
}

func TestLookupUnknownType(t *testing.T) {
	c := NewCache(nil)
	_, err := c.Lookup("u", "library")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = c.Lookup("u", "")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Zero(t, c.Len())
}

func TestConcurrentLookupsFillOnce(t *testing.T) {
	rec := &countingRecorder{}
	c := NewCache(rec)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Lookup("u", "results")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rec.counts["erp"])
	assert.Equal(t, 49, rec.counts["cache"])
}
