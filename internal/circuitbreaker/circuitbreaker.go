// Package circuitbreaker guards calls to remote stores with a sony/gobreaker breaker.
package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker configuration.
type Config struct {
	// Name labels logs and metrics.
	Name string
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// HalfOpenRequests is the number of trial calls allowed while half-open;
	// that many consecutive successes close the circuit again.
	HalfOpenRequests uint32
	// Timeout is how long the circuit stays open before going half-open.
	Timeout time.Duration
	// Interval clears the closed-state counts periodically. Zero never clears.
	Interval time.Duration
	// IsSuccessful decides which errors do not count as failures.
	// Nil counts every non-nil error.
	IsSuccessful func(err error) bool
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		Name:             "circuit-breaker",
		FailureThreshold: 5,
		HalfOpenRequests: 2,
		Timeout:          30 * time.Second,
	}
}

// Stats is a snapshot of breaker state.
type Stats struct {
	State                string
	Requests             uint32
	ConsecutiveFailures  uint32
	ConsecutiveSuccesses uint32
	IsHealthy            bool
}

// CircuitBreaker wraps gobreaker with a context-aware, error-only Execute.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New creates a circuit breaker. Zero thresholds fall back to DefaultConfig values.
func New(cfg Config) *CircuitBreaker {
	defaults := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = defaults.HalfOpenRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("circuit_breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.SetCircuitBreakerState(name, to.String())
		},
	}
	if cfg.IsSuccessful != nil {
		settings.IsSuccessful = cfg.IsSuccessful
	}

	metrics.SetCircuitBreakerState(cfg.Name, gobreaker.StateClosed.String())
	return &CircuitBreaker{name: cfg.Name, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn under the breaker. A cancelled context short-circuits
// without touching the breaker counts. Rejections are reported as ErrCircuitOpen.
func (c *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// Name returns the breaker name.
func (c *CircuitBreaker) Name() string {
	return c.name
}

// State returns "closed", "half-open" or "open".
func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}

// IsOpen reports whether calls are currently rejected.
func (c *CircuitBreaker) IsOpen() bool {
	return c.cb.State() == gobreaker.StateOpen
}

// GetStats returns current circuit breaker statistics.
func (c *CircuitBreaker) GetStats() Stats {
	state := c.cb.State()
	counts := c.cb.Counts()
	return Stats{
		State:                state.String(),
		Requests:             counts.Requests,
		ConsecutiveFailures:  counts.ConsecutiveFailures,
		ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
		IsHealthy:            state == gobreaker.StateClosed,
	}
}
