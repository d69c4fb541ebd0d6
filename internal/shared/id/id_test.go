package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestID(t *testing.T) {
	reqID := NewRequestID()

	assert.True(t, strings.HasPrefix(reqID.String(), "req_"))
	assert.Len(t, reqID.String(), len("req_")+26)
}

func TestParseRequestID(t *testing.T) {
	valid := NewRequestID()

	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"generated", valid.String(), true},
		{"empty", "", false},
		{"missing prefix", strings.TrimPrefix(valid.String(), "req_"), false},
		{"wrong prefix", "sess_" + strings.TrimPrefix(valid.String(), "req_"), false},
		{"garbage body", "req_not-a-ulid", false},
		{"log injection", "req_01HV\nlevel=error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRequestID(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.input, got.String())
			}
		})
	}
}

func TestRequestIDTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Millisecond)
	reqID := NewRequestID()
	after := time.Now().Add(time.Millisecond)

	ts, err := reqID.Timestamp()
	require.NoError(t, err)
	assert.True(t, !ts.Before(before.Truncate(time.Millisecond)) && !ts.After(after))

	_, err = RequestID("req_bogus").Timestamp()
	assert.Error(t, err)
}

func TestConcurrentGenerationIsUniqueAndOrdered(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- gen.GenerateWithPrefix(RequestPrefix)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, goroutines*perGoroutine)
	for v := range ids {
		_, dup := seen[v]
		require.False(t, dup, "duplicate id %s", v)
		seen[v] = struct{}{}
	}
	assert.Len(t, seen, goroutines*perGoroutine)

	// Sequential IDs from one generator sort in mint order.
	a := gen.Generate().String()
	b := gen.Generate().String()
	assert.Less(t, a, b)
}

func TestDefaultGenerator(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func BenchmarkNewRequestID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewRequestID()
	}
}
