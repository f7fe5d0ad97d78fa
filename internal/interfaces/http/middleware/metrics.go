package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
)

// unmatchedRoute labels requests no route matched, keeping 404 scans from
// adding series
const unmatchedRoute = "unmatched"

type HTTPMetricsConfig struct {
	Enabled bool
	// SkipPaths are not measured
	SkipPaths []string
}

func DefaultHTTPMetricsConfig() HTTPMetricsConfig {
	return HTTPMetricsConfig{Enabled: true, SkipPaths: []string{"/metrics", "/health", "/ready"}}
}

// HTTPMetrics observes request latency per method, route pattern and status
// and tracks requests in flight
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		defer metrics.TrackInFlight()()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
