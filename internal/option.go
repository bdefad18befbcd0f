package internal

import "github.com/starford/yeargoals/internal/clock"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	clock      clock.Clock
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets the file watched for log level changes.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(a *application) {
		a.clock = c
	}
}
