package config_test

import (
	"context"
	"testing"

	"github.com/okian/msdcalc/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := config.New()

		Convey("Then the defaults are sane", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.PoolSize, ShouldBeGreaterThan, 0)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.AcquireTimeoutMS, ShouldBeGreaterThan, 0)
			So(cfg.ScoreGoal, ShouldEqual, 93.0)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given layered loading", t, func() {
		ctx := context.Background()

		Convey("When no file or env overrides exist", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.ScoreGoal, ShouldEqual, 93.0)
			})
		})

		Convey("When env vars override defaults", func() {
			t.Setenv("MSDCALC_POOL_SIZE", "3")
			t.Setenv("MSDCALC_SCORE_GOAL", "85.5")
			t.Setenv("MSDCALC_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			Convey("Then the overrides win", func() {
				So(err, ShouldBeNil)
				So(cfg.PoolSize, ShouldEqual, 3)
				So(cfg.ScoreGoal, ShouldEqual, 85.5)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When an override is invalid", func() {
			t.Setenv("MSDCALC_SCORE_GOAL", "150")

			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
