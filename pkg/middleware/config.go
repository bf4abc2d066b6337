package middleware

import (
	"time"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/definition"
	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// defaultTokenIdleDelay is how long a process holding an unwanted token
// waits before forwarding it to its successor.
const defaultTokenIdleDelay = 100 * time.Millisecond

// Config configures a single Middleware instance. Populate-then-override:
// DefaultConfig returns a ready struct, Options mutate it.
type Config struct {
	// Name is a human-readable label for this process, returned by
	// Middleware.Name and used in log lines. Defaults to "P<id>".
	Name string

	// Logger receives every component's log output. Defaults to
	// definition.NewDefaultLogger().
	Logger types.Logger

	// TokenIdleDelay is how long a process holding an unwanted token waits
	// before forwarding it to its successor.
	TokenIdleDelay time.Duration
}

// DefaultConfig returns a Config with the stdlib-backed default logger and
// a 100ms token idle delay.
func DefaultConfig() *Config {
	return &Config{
		Logger:         definition.NewDefaultLogger(),
		TokenIdleDelay: defaultTokenIdleDelay,
	}
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithName overrides the process's display name.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithLogger overrides the logger every component of this process uses.
func WithLogger(log types.Logger) Option {
	return func(c *Config) { c.Logger = log }
}

// WithTokenIdleDelay overrides the immediate-forward delay.
func WithTokenIdleDelay(d time.Duration) Option {
	return func(c *Config) { c.TokenIdleDelay = d }
}

// WithLogrusLogger switches this process to the logrus-backed Logger,
// tagged with component as a structured field, instead of the stdlib
// default. Useful when the host application already runs logrus and wants
// every middleware line to carry the same fields/formatter/hooks.
func WithLogrusLogger(component string) Option {
	return func(c *Config) { c.Logger = definition.NewLogrusLogger(component) }
}
