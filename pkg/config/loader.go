package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses process environment variables into cfg, which must be a pointer
// to a struct using `env` / `envDefault` tags.
//
//	type Config struct {
//	    Port     int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	return LoadWithOptions(cfg, env.Options{})
}

// LoadFromMap parses cfg from vars instead of the process environment.
// Unset variables still fall back to their envDefault.
func LoadFromMap(cfg any, vars map[string]string) error {
	return LoadWithOptions(cfg, env.Options{Environment: vars})
}

// LoadWithOptions parses cfg with explicit caarlos0/env options, e.g. a prefix
// shared by every variable of a component.
func LoadWithOptions(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
