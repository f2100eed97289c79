// Package config loads command configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Option adjusts how ParseEnv reads variables.
type Option func(*env.Options)

// WithEnvironment reads variables from vars instead of the process
// environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *env.Options) {
		o.Environment = vars
	}
}

// WithRequired fails when a tagged variable without a default is unset.
func WithRequired() Option {
	return func(o *env.Options) {
		o.RequiredIfNoDef = true
	}
}

// ParseEnv loads env-tagged fields of target, walking nested structs.
func ParseEnv(target any, opts ...Option) error {
	var options env.Options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if err := env.ParseWithOptions(target, options); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
