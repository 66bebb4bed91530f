// Package config holds the small set of tunables for a generation run.
// There is no flag parsing here: the executable described in the design
// this implements takes no arguments, so a documented-default struct is
// the entire configuration surface.
package config

import "github.com/BassBess/generator2/internal/classify"

// Config is the full set of tunables for one run of cmd/gencritdb.
type Config struct {
	// Window bounds the plies eligible for classification.
	Window classify.Window
	// OutputPath is where the serialized database is written.
	OutputPath string
}

// Option mutates a Config away from its defaults.
type Option func(*Config)

// WithWindow overrides the ply window.
func WithWindow(w classify.Window) Option {
	return func(c *Config) { c.Window = w }
}

// WithOutputPath overrides the output file path.
func WithOutputPath(path string) Option {
	return func(c *Config) { c.OutputPath = path }
}

// Default returns the reference configuration: ply window [15, 28],
// output to ./critical.db.
func Default(opts ...Option) Config {
	c := Config{
		Window:     classify.DefaultWindow,
		OutputPath: "critical.db",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
