package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/visitas/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.SourcePath, convey.ShouldEqual, "visitas_FROCA.xlsx")
			convey.So(cfg.Sheet, convey.ShouldEqual, "Datos")
			convey.So(cfg.CacheTTL, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.SessionTTL, convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.MaxSessions, convey.ShouldEqual, 10_000)
			convey.So(cfg.WatchSource, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with broken fields", t, func() {
		cases := map[string]func(c *config.Config){
			"addr must not be empty":        func(c *config.Config) { c.Addr = " " },
			"source_path must not be empty": func(c *config.Config) { c.SourcePath = "" },
			"sheet must not be empty":       func(c *config.Config) { c.Sheet = "" },
			"cache_ttl must be positive":    func(c *config.Config) { c.CacheTTL = 0 },
			"session_ttl must be positive":  func(c *config.Config) { c.SessionTTL = -time.Second },
			"chart size must be positive":   func(c *config.Config) { c.ChartWidth = 0 },
			"schema.person needs":           func(c *config.Config) { c.Schema = map[string][]string{"person": nil} },
		}
		for msg, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, msg)
		}
	})
}
