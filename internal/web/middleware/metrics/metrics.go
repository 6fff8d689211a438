// Package metrics records prometheus request metrics for fiber.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCounter  *prometheus.CounterVec                 //nolint:gochecknoglobals
	requestDuration *prometheus.HistogramVec               //nolint:gochecknoglobals
	statusCategory  *prometheus.CounterVec                 //nolint:gochecknoglobals
	registerOnce    sync.Once                              //nolint:gochecknoglobals
	labelNames      = []string{"method", "path", "status"} //nolint:gochecknoglobals
)

func register(service string) {
	registerOnce.Do(func() {
		constLabels := prometheus.Labels{"service": service}

		requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, labelNames)

		requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, labelNames)

		statusCategory = promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_status_category_total",
			Help:        "Total number of responses by status category (2xx, 3xx, 4xx, 5xx).",
			ConstLabels: constLabels,
		}, []string{"category"})
	})
}

// Category returns the class of an HTTP status like "4xx", empty outside 100-599.
func Category(status int) string {
	if status < 100 || status > 599 {
		return ""
	}

	return strconv.Itoa(status/100) + "xx" //nolint:mnd
}

// New returns the middleware. Metrics are registered once per process, the first service name wins.
// skip excludes requests, e.g. the metrics endpoint itself.
func New(service string, skip func(c *fiber.Ctx) bool) fiber.Handler {
	register(service)

	return func(c *fiber.Ctx) error {
		if skip != nil && skip(c) {
			return c.Next()
		}

		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok { //nolint:errorlint
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// route pattern, not the raw path, to keep label cardinality bounded
		path := c.Route().Path
		code := strconv.Itoa(status)

		requestCounter.WithLabelValues(c.Method(), path, code).Inc()
		requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())

		if category := Category(status); category != "" {
			statusCategory.WithLabelValues(category).Inc()
		}

		return err
	}
}
