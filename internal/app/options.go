package service

import (
	"time"

	"github.com/okian/msdcalc/pkg/logger"
)

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPoolSize sets how many evaluator handles Start prepopulates.
func WithPoolSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.poolSize = n
		}
	}
}

// WithWorkerCount sets the batch evaluation parallelism.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithScoreGoal sets the accuracy target used on the single-rate path.
func WithScoreGoal(goal float64) Option {
	return func(s *Service) {
		if goal > 0 && goal <= 100 {
			s.scoreGoal = goal
		}
	}
}

// WithAcquireTimeout bounds how long an evaluation waits for a pooled handle.
func WithAcquireTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.acquireTimeout = d
		}
	}
}
