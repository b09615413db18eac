package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// BreakerConfig controls when the circuit opens and how long it stays open.
type BreakerConfig struct {
	MaxFailures uint32
	Timeout     time.Duration
}

var (
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit breaker open")

	errInvalidConfig = errors.New("invalid backoff configuration")
)

// Guarded wraps a snapshot source with retries, exponential backoff,
// and a circuit breaker.
type Guarded struct {
	name    string
	source  weather.Source
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
}

// NewGuarded wraps source. A zero MaxFailures falls back to 5.
func NewGuarded(name string, source weather.Source, backoff BackoffConfig, breaker BreakerConfig) *Guarded {
	maxFailures := breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := breaker.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return &Guarded{
		name:    name,
		source:  source,
		backoff: backoff,
		circuit: cb,
	}
}

// Name returns the breaker name.
func (g *Guarded) Name() string {
	return g.name
}

// State reports the breaker state ("closed", "half-open", "open").
func (g *Guarded) State() string {
	return g.circuit.State().String()
}

// Fetch calls the wrapped source, retrying failures with exponential delay.
func (g *Guarded) Fetch(ctx context.Context) (weather.Snapshot, error) {
	if g.backoff.MaxRetries < 0 || (g.backoff.MaxRetries > 0 && g.backoff.InitialInterval <= 0) {
		return weather.Snapshot{}, errInvalidConfig
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return weather.Snapshot{}, ctx.Err()
		}

		result, err := g.circuit.Execute(func() (interface{}, error) {
			return g.source.Fetch(ctx)
		})

		if err == nil {
			snap, ok := result.(weather.Snapshot)
			if !ok {
				return weather.Snapshot{}, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return snap, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.Snapshot{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		lastErr = err
		if attempt >= g.backoff.MaxRetries {
			return weather.Snapshot{}, lastErr
		}

		// Backoff with exponential delay.
		delay := g.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > g.backoff.MaxInterval && g.backoff.MaxInterval > 0 {
			delay = g.backoff.MaxInterval
		}

		log.WithFields(log.Fields{
			"source":  g.name,
			"attempt": attempt + 1,
			"delay":   delay,
		}).WithError(err).Debug("retrying snapshot fetch")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return weather.Snapshot{}, ctx.Err()
		case <-timer.C:
			// continue to next attempt
		}

		attempt++
	}
}
