package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// probeRoutes are polled by orchestrators every few seconds and are not measured.
var probeRoutes = map[string]struct{}{
	"/health": {},
	"/ready":  {},
}

// HTTPMetricsMiddleware returns a Gin middleware recording admin API traffic:
// {namespace}_http_requests_total, {namespace}_http_request_duration_seconds and
// {namespace}_http_requests_in_flight. The route pattern is used as the route label so
// transaction ids never become label values.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of admin API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("Admin API request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passThrough
	}

	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("Admin API requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		route := routeLabel(c.FullPath())
		if _, probe := probeRoutes[route]; probe {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		method := attribute.String("method", c.Request.Method)
		inFlight.Add(ctx, 1, metric.WithAttributes(method))
		start := time.Now()

		c.Next()

		inFlight.Add(ctx, -1, metric.WithAttributes(method))
		attrs := metric.WithAttributes(
			method,
			attribute.String("route", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		requestCounter.Add(ctx, 1, attrs)
		durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// passThrough is used when instruments cannot be created; requests are served unmeasured.
func passThrough(c *gin.Context) {
	c.Next()
}

// routeLabel returns the matched route pattern, or "unmatched" for requests no route handled.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unmatched"
	}
	return fullPath
}
