package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
)

var unprofiledRoutes = map[string]bool{"": true, "/health": true, "/ready": true, "/metrics": true}

// Profiling tags CPU samples of a request with its route, method, controller
// and company. It must run after Auth.
func Profiling(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if !enabled || unprofiledRoutes[route] {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelController: controllerFromRoute(route),
		}
		if id := GetCompanyID(c); id != uuid.Nil {
			labels[telemetry.ProfilingLabelCompanyID] = id.String()
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute keeps at most two static segments after the API
// prefix: "/api/v1/sales/quotes/:id/send" -> "sales/quotes"
func controllerFromRoute(route string) string {
	segs := strings.FieldsFunc(route, func(r rune) bool { return r == '/' })
	if len(segs) > 0 && segs[0] == "api" {
		segs = segs[1:]
	}
	if len(segs) > 0 && isAPIVersion(segs[0]) {
		segs = segs[1:]
	}
	out := make([]string, 0, 2)
	for _, s := range segs {
		if len(out) == 2 || strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			break
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

// isAPIVersion matches v1, v2, ...
func isAPIVersion(seg string) bool {
	if len(seg) < 2 || (seg[0] != 'v' && seg[0] != 'V') {
		return false
	}
	return strings.Trim(seg[1:], "0123456789") == ""
}
