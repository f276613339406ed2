// Package guard wraps upstream providers with a circuit breaker and a rate
// limiter so a flapping or throttling provider degrades to the same fail-open
// path as any other source error.
package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Settings configure a single provider's guard.
type Settings struct {
	// RequestsPerSecond is the sustained call rate allowed to the provider.
	RequestsPerSecond float64
	// Burst is the rate limiter's burst size.
	Burst int
	// ConsecutiveFailures trips the breaker once reached.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe call.
	OpenTimeout time.Duration
}

// DefaultSettings are used for providers registered without settings.
func DefaultSettings() Settings {
	return Settings{
		RequestsPerSecond:   5,
		Burst:               5,
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

type providerGuard struct {
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// Guard keys per-provider breakers and limiters by provider name.
type Guard struct {
	mu        sync.RWMutex
	providers map[string]*providerGuard
	defaults  Settings
	logger    zerolog.Logger
}

// New creates a guard that lazily registers providers with default settings.
func New(logger zerolog.Logger) *Guard {
	return &Guard{
		providers: make(map[string]*providerGuard),
		defaults:  DefaultSettings(),
		logger:    logger.With().Str("component", "guard").Logger(),
	}
}

// Register configures a provider explicitly. Later Do calls for the same
// name reuse this configuration.
func (g *Guard) Register(name string, s Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.providers[name] = g.build(name, s)
}

func (g *Guard) build(name string, s Settings) *providerGuard {
	st := gobreaker.Settings{Name: name}
	st.Timeout = s.OpenTimeout
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= s.ConsecutiveFailures
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		g.logger.Warn().Str("provider", name).
			Str("from", from.String()).Str("to", to.String()).
			Msg("circuit state change")
	}

	return &providerGuard{
		breaker: gobreaker.NewCircuitBreaker(st),
		limiter: rate.NewLimiter(rate.Limit(s.RequestsPerSecond), s.Burst),
	}
}

func (g *Guard) provider(name string) *providerGuard {
	g.mu.RLock()
	p, ok := g.providers[name]
	g.mu.RUnlock()
	if ok {
		return p
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.providers[name]; ok {
		return p
	}
	p = g.build(name, g.defaults)
	g.providers[name] = p
	return p
}

// Do runs fn against the named provider, waiting for rate-limit headroom
// first and short-circuiting while the provider's breaker is open.
func (g *Guard) Do(ctx context.Context, name string, fn func() error) error {
	p := g.provider(name)

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", name, err)
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}
