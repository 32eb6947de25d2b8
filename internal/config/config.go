// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Default configuration values.
const (
	defaultScoreGoal        = 93.0
	defaultAcquireTimeoutMS = 5000
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PoolSize is the number of evaluator handles prepopulated at startup.
	PoolSize int `koanf:"pool_size"`

	// AcquireTimeoutMS bounds how long a worker waits for a pooled handle.
	AcquireTimeoutMS int `koanf:"acquire_timeout_ms"`

	// WorkerCount sets the number of parallel evaluation workers for
	// batch runs.
	WorkerCount int `koanf:"worker_count"`

	// ScoreGoal is the accuracy target used on the single-rate path,
	// in (0, 100].
	ScoreGoal float64 `koanf:"score_goal"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		PoolSize:         runtime.NumCPU(),
		AcquireTimeoutMS: defaultAcquireTimeoutMS,
		WorkerCount:      runtime.NumCPU(),
		ScoreGoal:        defaultScoreGoal,
	}
}
