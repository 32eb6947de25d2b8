package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/msdcalc/internal/adapters/parser"
	service "github.com/okian/msdcalc/internal/app"
	"github.com/okian/msdcalc/internal/calc/native"
	"github.com/okian/msdcalc/internal/domain/chart"
	"github.com/okian/msdcalc/internal/domain/rates"
	"github.com/okian/msdcalc/internal/domain/skillset"
	"github.com/okian/msdcalc/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testChart builds a 4K chart with a steady eighth-note stream.
func testChart(n int) *chart.Chart {
	events := make([]chart.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, chart.Event{
			TimeUS: int64(i) * 125_000,
			Column: i % 4,
		})
	}
	return &chart.Chart{
		Mode:      chart.ModeMania,
		KeyCount:  4,
		Precision: chart.PrecisionMicroseconds,
		Title:     "stream",
		Events:    events,
	}
}

// writeRoxChart encodes a chart into a temp .rox file and returns its path.
func writeRoxChart(t *testing.T, c *chart.Chart) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.rox")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := parser.EncodeRox(f, c); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLifecycle(t *testing.T) {
	Convey("Given a service with a prepopulated pool", t, func() {
		ctx := context.Background()
		svc := service.New(native.New(), service.WithPoolSize(3))

		Convey("When it starts", func() {
			err := svc.Start(ctx)

			Convey("Then the pool holds the configured handles", func() {
				So(err, ShouldBeNil)
				So(svc.PoolSize(), ShouldEqual, 3)
			})

			Convey("And stopping drains the pool", func() {
				svc.Stop()
				So(svc.PoolSize(), ShouldEqual, 0)
			})
		})
	})
}

func TestEvaluateAllRates(t *testing.T) {
	Convey("Given a streamy 4K chart", t, func() {
		ctx := context.Background()
		svc := service.New(native.New())
		c := testChart(200)

		Convey("When evaluating all rates", func() {
			report, err := svc.EvaluateAllRates(ctx, c, "stream.rox")
			So(err, ShouldBeNil)

			Convey("Then the report covers every predefined rate in order", func() {
				So(report.Rates, ShouldHaveLength, rates.Count)
				for i, want := range rates.Values() {
					So(report.Rates[i].Rate, ShouldAlmostEqual, want, 1e-9)
				}
			})

			Convey("Then headline fields come from the 1.0x slot", func() {
				identity := report.Rates[rates.IdentityIndex]
				So(identity.Rate, ShouldAlmostEqual, 1.0, 1e-9)
				So(report.Difficulty1x, ShouldEqual, identity.Scores.Overall)
				So(report.DominantSkillset, ShouldBeIn, skillset.Names)
			})

			Convey("Then metadata is carried through", func() {
				So(report.BeatmapPath, ShouldEqual, "stream.rox")
				So(report.EngineVersion, ShouldEqual, 505)
			})

			Convey("Then higher rates never score below lower ones", func() {
				for i := 1; i < len(report.Rates); i++ {
					So(report.Rates[i].Scores.Overall, ShouldBeGreaterThanOrEqualTo,
						report.Rates[i-1].Scores.Overall)
				}
			})
		})

		Convey("When the chart is rejected by normalization", func() {
			bad := testChart(10)
			bad.KeyCount = 5

			_, err := svc.EvaluateAllRates(ctx, bad, "bad.rox")

			Convey("Then the error surfaces", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestEvaluateAtRate(t *testing.T) {
	Convey("Given a streamy 4K chart", t, func() {
		ctx := context.Background()
		svc := service.New(native.New())
		c := testChart(200)

		Convey("When the rate sits on the 0.1 grid", func() {
			report, err := svc.EvaluateAtRate(ctx, c, "stream.rox", 1.5)
			So(err, ShouldBeNil)

			Convey("Then the scores match the all-rates slot", func() {
				full, err := svc.EvaluateAllRates(ctx, c, "stream.rox")
				So(err, ShouldBeNil)

				idx, ok := rates.IndexWithTolerance(1.5)
				So(ok, ShouldBeTrue)
				So(report.Rate, ShouldAlmostEqual, 1.5, 1e-9)
				So(report.Scores, ShouldResemble, full.Rates[idx].Scores)
			})
		})

		Convey("When the rate falls between grid points", func() {
			report, err := svc.EvaluateAtRate(ctx, c, "stream.rox", 1.13)
			So(err, ShouldBeNil)

			Convey("Then it lands between the neighboring grid rates", func() {
				full, err := svc.EvaluateAllRates(ctx, c, "stream.rox")
				So(err, ShouldBeNil)

				lo, _ := rates.IndexWithTolerance(1.1)
				hi, _ := rates.IndexWithTolerance(1.2)
				So(report.Scores.Overall, ShouldBeGreaterThanOrEqualTo, full.Rates[lo].Scores.Overall)
				So(report.Scores.Overall, ShouldBeLessThanOrEqualTo, full.Rates[hi].Scores.Overall)
			})
		})

		Convey("When the rate is not positive", func() {
			_, err := svc.EvaluateAtRate(ctx, c, "stream.rox", 0)

			Convey("Then the error surfaces", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestEvaluateBatch(t *testing.T) {
	Convey("Given a mix of good and bad chart paths", t, func() {
		ctx := context.Background()
		svc := service.New(native.New(), service.WithWorkerCount(4))

		good := writeRoxChart(t, testChart(100))
		missing := filepath.Join(t.TempDir(), "missing.rox")

		paths := []string{good, missing, good}

		Convey("When evaluating the batch", func() {
			results := svc.EvaluateBatch(ctx, paths)

			Convey("Then results keep input order", func() {
				So(results, ShouldHaveLength, 3)
				So(results[0].Path, ShouldEqual, good)
				So(results[1].Path, ShouldEqual, missing)
				So(results[2].Path, ShouldEqual, good)
			})

			Convey("Then good charts get reports and bad ones get errors", func() {
				So(results[0].Err, ShouldBeNil)
				So(results[0].Report, ShouldNotBeNil)
				So(results[0].Report.Rates, ShouldHaveLength, rates.Count)

				So(results[1].Err, ShouldNotBeNil)
				So(results[1].Report, ShouldBeNil)

				So(results[2].Err, ShouldBeNil)
				So(results[2].Report.Difficulty1x, ShouldEqual, results[0].Report.Difficulty1x)
			})
		})

		Convey("When the batch is empty", func() {
			results := svc.EvaluateBatch(ctx, nil)

			Convey("Then it returns no results without blocking", func() {
				So(results, ShouldBeEmpty)
			})
		})
	})
}

func TestAcquireTimeout(t *testing.T) {
	Convey("Given a service with a tiny acquire timeout", t, func() {
		svc := service.New(native.New(), service.WithAcquireTimeout(time.Millisecond))

		Convey("When the engine can construct handles", func() {
			report, err := svc.EvaluateAllRates(context.Background(), testChart(50), "x.rox")

			Convey("Then construction still satisfies the acquire", func() {
				So(err, ShouldBeNil)
				So(report, ShouldNotBeNil)
			})
		})
	})
}
