// Package service drives the evaluation pipeline: parse, normalize,
// evaluate, aggregate.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/msdcalc/internal/adapters/parser"
	"github.com/okian/msdcalc/internal/calc"
	"github.com/okian/msdcalc/internal/calc/pool"
	"github.com/okian/msdcalc/internal/domain/chart"
	"github.com/okian/msdcalc/internal/domain/rates"
	"github.com/okian/msdcalc/internal/domain/skillset"
	"github.com/okian/msdcalc/pkg/logger"
	"github.com/okian/msdcalc/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultScoreGoal      = 93.0
	defaultAcquireTimeout = 5 * time.Second
	defaultWorkerCount    = 4
)

// Evaluation kinds for metrics.
const (
	kindAllRates     = "all_rates"
	kindSingleRate   = "single_rate"
	kindScaledSingle = "scaled_single"
)

// Service owns the handle pool and runs evaluations against it. Workers
// share nothing but the pool; every evaluation normalizes and aggregates
// its own data.
type Service struct {
	engine calc.Engine
	pool   *pool.Pool

	poolSize       int
	workerCount    int
	scoreGoal      float64
	acquireTimeout time.Duration

	log logger.Logger
}

// New creates a Service with configuration options.
func New(engine calc.Engine, opts ...Option) *Service {
	s := &Service{
		engine:         engine,
		poolSize:       0, // no prepopulation unless configured
		workerCount:    defaultWorkerCount,
		scoreGoal:      defaultScoreGoal,
		acquireTimeout: defaultAcquireTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("service")
	}
	s.pool = pool.New(engine)
	return s
}

// Start prepopulates the handle pool so the first evaluations do not pay
// construction cost.
func (s *Service) Start(ctx context.Context) error {
	if s.poolSize <= 0 {
		return nil
	}
	s.log.Info(ctx, "prepopulating evaluator pool", logger.Int("count", s.poolSize))
	if err := s.pool.Prepopulate(ctx, s.poolSize); err != nil {
		return fmt.Errorf("prepopulating pool: %w", err)
	}
	return nil
}

// Stop destroys every idle handle.
func (s *Service) Stop() {
	s.pool.Clear()
}

// PoolSize reports the number of idle evaluator handles.
func (s *Service) PoolSize() int {
	return s.pool.Size()
}

// EvaluateAllRates scores a chart at every predefined rate and builds the
// full report.
func (s *Service) EvaluateAllRates(ctx context.Context, c *chart.Chart, beatmapPath string) (*Report, error) {
	all, err := s.allRates(ctx, c)
	if err != nil {
		metrics.RecordEvaluationError(kindAllRates)
		return nil, err
	}
	metrics.RecordEvaluation(kindAllRates)
	return buildReport(beatmapPath, s.engine.Version(), all), nil
}

// EvaluateAtRate scores a chart at one arbitrary rate. Rates on the 0.1
// grid are read out of the all-rates table; anything finer re-normalizes
// the chart with the rate as a time scale and takes the single-rate path,
// whose identity-rate output is the requested rate's score.
func (s *Service) EvaluateAtRate(ctx context.Context, c *chart.Chart, beatmapPath string, rate float64) (*SingleRateReport, error) {
	if idx, ok := rates.IndexWithTolerance(rate); ok {
		all, err := s.allRates(ctx, c)
		if err != nil {
			metrics.RecordEvaluationError(kindSingleRate)
			return nil, err
		}
		metrics.RecordEvaluation(kindSingleRate)
		return buildSingleRateReport(beatmapPath, s.engine.Version(), rate, all.MSDs[idx]), nil
	}

	scores, err := s.scaledSingle(ctx, c, rate)
	if err != nil {
		metrics.RecordEvaluationError(kindScaledSingle)
		return nil, err
	}
	metrics.RecordEvaluation(kindScaledSingle)
	return buildSingleRateReport(beatmapPath, s.engine.Version(), rate, scores), nil
}

// BatchResult is the outcome of one batch entry.
type BatchResult struct {
	Path   string
	Report *Report
	Err    error
}

// EvaluateBatch fans paths across workers, each independently driving
// parse -> normalize -> evaluate -> aggregate. Results keep input order.
func (s *Service) EvaluateBatch(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))

	type job struct {
		idx  int
		path string
	}
	jobs := make(chan job)

	workers := s.workerCount
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = s.evaluateOne(ctx, j.path)
			}
		}()
	}

	for i, p := range paths {
		jobs <- job{idx: i, path: p}
	}
	close(jobs)
	wg.Wait()

	return results
}

// evaluateOne runs the full pipeline for one chart file.
func (s *Service) evaluateOne(ctx context.Context, path string) BatchResult {
	jobID := uuid.NewString()
	log := s.log.Named("job")
	log.Debug(ctx, "evaluating chart", logger.String("job_id", jobID), logger.String("path", path))

	c, err := parser.ParseFile(path)
	if err != nil {
		log.Error(ctx, "parse failed", logger.String("job_id", jobID), logger.Error(err))
		return BatchResult{Path: path, Err: err}
	}

	report, err := s.EvaluateAllRates(ctx, c, path)
	if err != nil {
		log.Error(ctx, "evaluation failed", logger.String("job_id", jobID), logger.Error(err))
		return BatchResult{Path: path, Err: err}
	}
	return BatchResult{Path: path, Report: report}
}

// allRates normalizes without scaling and asks the engine for the full table.
func (s *Service) allRates(ctx context.Context, c *chart.Chart) (rates.AllRates, error) {
	notes, err := chart.Normalize(c)
	if err != nil {
		metrics.RecordNormalizationError(reason(err))
		return rates.AllRates{}, err
	}
	metrics.RecordChartNormalized(len(notes))

	h, err := s.pool.AcquireWithTimeout(ctx, s.acquireTimeout)
	if err != nil {
		return rates.AllRates{}, err
	}
	defer s.pool.Release(h)

	start := time.Now()
	all, err := h.EvaluateAllRates(ctx, notes, c.KeyCount)
	metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return rates.AllRates{}, err
	}

	// Out-of-band scores mean the engine malfunctioned; surface, never clamp.
	if err := all.Validate(); err != nil {
		return rates.AllRates{}, err
	}

	s.logDominant(ctx, all.MSDs[rates.IdentityIndex])
	return all, nil
}

// scaledSingle applies the rate in normalization, then evaluates at 1.0x.
// The scaling has already happened in the input, so the identity-rate
// output is the requested rate's score.
func (s *Service) scaledSingle(ctx context.Context, c *chart.Chart, rate float64) (skillset.Scores, error) {
	notes, err := chart.Normalize(c, chart.WithRate(rate))
	if err != nil {
		metrics.RecordNormalizationError(reason(err))
		return skillset.Scores{}, err
	}
	metrics.RecordChartNormalized(len(notes))

	h, err := s.pool.AcquireWithTimeout(ctx, s.acquireTimeout)
	if err != nil {
		return skillset.Scores{}, err
	}
	defer s.pool.Release(h)

	start := time.Now()
	scores, err := h.EvaluateSingle(ctx, notes, c.KeyCount, 1.0, s.scoreGoal)
	metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return skillset.Scores{}, err
	}

	if err := scores.Validate(); err != nil {
		return skillset.Scores{}, err
	}

	s.logDominant(ctx, scores)
	return scores, nil
}

func (s *Service) logDominant(ctx context.Context, scores skillset.Scores) {
	s.log.Debug(ctx, "scored chart",
		logger.Float64("overall", scores.Overall),
		logger.String("dominant", skillset.Dominant(scores)),
		logger.Any("top_patterns", skillset.TopPatterns(scores, 3)),
	)
}

// reason maps a normalization error to a metrics label.
func reason(err error) string {
	switch {
	case errors.Is(err, chart.ErrUnsupportedGameMode):
		return "unsupported_game_mode"
	case errors.Is(err, chart.ErrUnsupportedKeyCount):
		return "unsupported_key_count"
	case errors.Is(err, chart.ErrUnsupportedColumn):
		return "unsupported_column"
	case errors.Is(err, chart.ErrInvalidRate):
		return "invalid_rate"
	case errors.Is(err, chart.ErrNoNotes):
		return "no_notes"
	default:
		return "invalid_notes"
	}
}
