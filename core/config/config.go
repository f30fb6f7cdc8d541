// Package config provides type-safe environment variable loading. A .env
// file is loaded once per process (best effort, missing files are fine) and
// struct fields are parsed from the environment via caarlos0/env tags.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParseConfig wraps environment parsing failures.
var ErrParseConfig = errors.New("failed to parse config from environment")

var loadDotEnv = sync.OnceFunc(func() {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()
})

// Load populates cfg from the environment. cfg must be a pointer to a
// struct with `env` tags:
//
//	type Config struct {
//		Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load[T any](cfg *T) error {
	loadDotEnv()
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParseConfig, err)
	}
	return nil
}

// MustLoad is Load that panics on failure, for use at startup where a
// malformed configuration should abort boot.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
