package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/arthouse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DataDir, convey.ShouldBeEmpty)
			convey.So(cfg.DefaultPageLimit, convey.ShouldEqual, 100)
			convey.So(cfg.MaxPageLimit, convey.ShouldEqual, 1000)
			convey.So(cfg.HighTierThreshold, convey.ShouldEqual, 70)
			convey.So(cfg.ReservedHead, convey.ShouldEqual, 50)
			convey.So(len(cfg.CuratedTitles), convey.ShouldEqual, 25)
			convey.So(cfg.CuratedTitles[0], convey.ShouldEqual, "Mulholland Drive")
			convey.So(cfg.SignificantDelta, convey.ShouldEqual, 10)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:5173"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
			"zero page limit":    func(c *config.Config) { c.DefaultPageLimit = 0 },
			"max below default":  func(c *config.Config) { c.MaxPageLimit = 10 },
			"threshold over 100": func(c *config.Config) { c.HighTierThreshold = 101 },
			"negative head":      func(c *config.Config) { c.ReservedHead = -1 },
			"negative delta":     func(c *config.Config) { c.SignificantDelta = -1 },
			"zero queue":         func(c *config.Config) { c.QueueSize = 0 },
			"negative rate":      func(c *config.Config) { c.RateLimitRequests = -5 },
		}

		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New(context.Background())
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
