package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MSDCALC_CONFIG is set
//  3. env (prefix MSDCALC_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx // reserved for future providers

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("MSDCALC_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: MSDCALC_POOL_SIZE, MSDCALC_SCORE_GOAL, ...
	// Map env keys like MSDCALC_POOL_SIZE -> pool_size (flat keys).
	envProvider := env.Provider("MSDCALC_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "msdcalc_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool_size %d", ErrInvalidConfig, c.PoolSize)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.AcquireTimeoutMS <= 0 {
		return fmt.Errorf("%w: acquire_timeout_ms %d", ErrInvalidConfig, c.AcquireTimeoutMS)
	}
	if c.ScoreGoal <= 0 || c.ScoreGoal > 100 {
		return fmt.Errorf("%w: score_goal %g", ErrInvalidConfig, c.ScoreGoal)
	}
	return nil
}
