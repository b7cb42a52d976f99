// Package metrics provides Prometheus metrics collection for the cart service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CartOperationsTotal counts cart mutations by operation.
	CartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Total number of cart operations",
		},
		[]string{"operation"},
	)

	// CartItemsPerCart observes the unit count of a cart after each change.
	CartItemsPerCart = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_items_per_cart",
			Help:    "Number of units in a cart after a change",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 50, 100},
		},
	)

	// CartSessionsActive tracks carts currently held in memory.
	CartSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_sessions_active",
			Help: "Number of carts held in memory",
		},
	)

	// CatalogCacheOperationsTotal tracks product cache operations.
	CatalogCacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_operations_total",
			Help: "Total number of product cache operations",
		},
		[]string{"operation", "result"},
	)

	// CheckoutTotal counts checkouts by outcome.
	CheckoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"status"},
	)

	// CheckoutDuration tracks how long checkout takes, persistence included.
	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Checkout duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// CircuitBreakerState exposes breaker state: 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// EventsPublishedTotal counts published domain events.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of published events",
		},
		[]string{"subject", "result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordCartOperation counts a cart mutation.
func RecordCartOperation(operation string) {
	CartOperationsTotal.WithLabelValues(operation).Inc()
}

// ObserveCartSize records the unit count of a cart after a change.
func ObserveCartSize(items int) {
	CartItemsPerCart.Observe(float64(items))
}

// SetActiveCarts sets the number of in-memory carts.
func SetActiveCarts(n int) {
	CartSessionsActive.Set(float64(n))
}

// RecordCacheOperation records metrics for a product cache operation.
func RecordCacheOperation(operation, result string) {
	CatalogCacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCheckout records the outcome and duration of a checkout.
func RecordCheckout(duration time.Duration, status string) {
	CheckoutDuration.Observe(duration.Seconds())
	CheckoutTotal.WithLabelValues(status).Inc()
}

// SetCircuitBreakerState maps a breaker state name to the gauge value.
func SetCircuitBreakerState(name, state string) {
	var v float64
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RecordEventPublished counts a publish attempt.
func RecordEventPublished(subject string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsPublishedTotal.WithLabelValues(subject, result).Inc()
}
