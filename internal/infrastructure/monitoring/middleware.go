package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests no route claimed, keeping label cardinality
// bounded no matter what paths clients probe.
const unmatchedRoute = "unmatched"

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, route, status, time.Since(start), reqSize, respSize)
	}
}

// Timer measures one origin round trip
type Timer struct {
	start   time.Time
	metrics *Metrics
	method  string
}

// NewTimer starts timing an origin request
func NewTimer(metrics *Metrics, method string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		method:  method,
	}
}

// Stop records the elapsed time under the given outcome
func (t *Timer) Stop(outcome string) time.Duration {
	d := time.Since(t.start)
	if t.metrics != nil {
		t.metrics.RecordOriginRequest(t.method, outcome, d)
	}
	return d
}
