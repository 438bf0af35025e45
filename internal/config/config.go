// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// OpenAIAPIKey enables the semantic fallback stage. When empty the
	// resolver runs with the deterministic stages only.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// ResolverModel is the model used for choice resolution. A fast,
	// cheap model is enough; the call returns a single token.
	ResolverModel string `env:"RESOLVER_MODEL" envDefault:"gpt-5-mini"`

	// ResolveTimeout bounds the single semantic fallback attempt per
	// turn. On expiry the turn degrades to a clarification prompt.
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"10s"`

	// ResolutionLogPath is the SQLite file recording fallback attempts.
	ResolutionLogPath string `env:"RESOLUTION_LOG_PATH" envDefault:"./resolutions.db"`

	// WorldPath overrides the embedded world document.
	WorldPath string `env:"WORLD_PATH"`

	Debug bool `env:"DEBUG"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
