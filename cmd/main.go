// Command msdcalc evaluates rhythm-game charts and prints difficulty
// reports as JSON on stdout. Logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/msdcalc/internal/adapters/parser"
	service "github.com/okian/msdcalc/internal/app"
	"github.com/okian/msdcalc/internal/calc/native"
	"github.com/okian/msdcalc/internal/config"
	"github.com/okian/msdcalc/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "msdcalc:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		rate   = flag.Float64("rate", 0, "evaluate a single playback rate instead of the full table")
		goal   = flag.Float64("goal", 0, "accuracy target for single-rate evaluation (0 uses the configured default)")
		pretty = flag.Bool("pretty", false, "indent the JSON output")
		output = flag.String("output", "", "write the report to a file instead of stdout")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		return fmt.Errorf("%w: usage: msdcalc [flags] <chart> [chart...]", service.ErrNoCharts)
	}

	if err := logger.Init(); err != nil {
		return err
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	scoreGoal := cfg.ScoreGoal
	if *goal > 0 {
		scoreGoal = *goal
	}

	svc := service.New(native.New(),
		service.WithPoolSize(cfg.PoolSize),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithScoreGoal(scoreGoal),
		service.WithAcquireTimeout(time.Duration(cfg.AcquireTimeoutMS)*time.Millisecond),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	report, err := evaluate(ctx, svc, flag.Args(), *rate)
	if err != nil {
		return err
	}
	return emit(report, *output, *pretty)
}

// evaluate picks the pipeline shape from the arguments: one chart at one
// rate, one chart across all rates, or a batch of charts.
func evaluate(ctx context.Context, svc *service.Service, paths []string, rate float64) (any, error) {
	if rate != 0 {
		if len(paths) > 1 {
			return nil, fmt.Errorf("-rate accepts a single chart, got %d", len(paths))
		}
		c, err := parser.ParseFile(paths[0])
		if err != nil {
			return nil, err
		}
		return svc.EvaluateAtRate(ctx, c, paths[0], rate)
	}

	if len(paths) == 1 {
		c, err := parser.ParseFile(paths[0])
		if err != nil {
			return nil, err
		}
		return svc.EvaluateAllRates(ctx, c, paths[0])
	}

	results := svc.EvaluateBatch(ctx, paths)
	reports := make([]*service.Report, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("%s: %w", r.Path, r.Err)
		}
		reports = append(reports, r.Report)
	}
	return reports, nil
}

func emit(report any, output string, pretty bool) error {
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}
