package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewMetricsTwice(t *testing.T) {
	// Private registries mean no duplicate registration panic.
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := NewMetrics()
	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/session/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/session/a", "/api/session/b", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/session/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
}

func TestSessionObserver(t *testing.T) {
	m := NewMetrics()

	m.SessionCreated(1)
	m.SessionCreated(2)
	m.SessionInvalidated(1)
	m.SessionsEvicted(1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsInvalidated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsExpired))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionsActive))
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	timer := NewTimer(m, http.MethodPost)
	d := timer.Stop("timeout")

	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OriginRequests.WithLabelValues("POST", "timeout")))

	// A nil collector is tolerated.
	assert.NotPanics(t, func() { NewTimer(nil, http.MethodGet).Stop("ok") })
}

func TestHandlerExposition(t *testing.T) {
	m := NewMetrics()
	m.RecordTransform(1000, 150)
	m.RecordStatsLookup("cache")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "unilite_transform_input_bytes_total 1000"))
	assert.True(t, strings.Contains(body, "unilite_transform_output_bytes_total 150"))
	assert.Contains(t, body, `unilite_stats_lookups_total{source="cache"} 1`)
	assert.Contains(t, body, "unilite_uptime_seconds")
}
