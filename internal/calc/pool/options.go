package pool

import "time"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithRetryInterval sets the sleep between timed acquisition attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.retry = d
		}
	}
}

// WithMaxIdle caps how many idle handles the pool keeps. Released handles
// beyond the cap are destroyed.
func WithMaxIdle(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.maxIdle = n
		}
	}
}
