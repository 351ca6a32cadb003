package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/config"
	"github.com/okian/visitas/internal/sample"
	"github.com/okian/visitas/pkg/logger"
	"github.com/okian/visitas/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWith(io.Discard, "text"); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("VISITAS_ADDR", ":8080")
			t.Setenv("VISITAS_CACHE_TTL", "90s")
			t.Setenv("VISITAS_CORS_ORIGINS", "https://a.example, https://b.example")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then the service maps every config field", func() {
				cfg := config.New()
				cfg.SourcePath = "/data/visitas.xlsx"
				cfg.Sheet = "Hoja1"
				cfg.WatchSource = true

				stats := newService(cfg, logger.Get()).GetStats()
				convey.So(stats.Source, convey.ShouldEqual, "/data/visitas.xlsx")
				convey.So(stats.Sheet, convey.ShouldEqual, "Hoja1")
				convey.So(stats.Watching, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it returns once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it returns once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing service metrics update on a stopped service", func() {
			convey.So(func() {
				updateServiceMetrics(app.New())
			}, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a generated workbook and the full handler", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		gen := sample.Defaults()
		gen.Path = filepath.Join(t.TempDir(), "visitas.xlsx")
		gen.Rows = 300
		_, err := sample.Generate(ctx, gen)
		convey.So(err, convey.ShouldBeNil)

		cfg := config.New()
		cfg.SourcePath = gen.Path
		cfg.ChartWidth, cfg.ChartHeight = 320, 240
		cfg.CORSOrigins = []string{"https://panel.example.org"}

		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		updateServiceMetrics(svc)

		h := newHandler(ctx, cfg, svc)

		convey.Convey("Then the API, docs and charts are all served", func() {
			for _, path := range []string{"/healthz", "/stats", "/api/state", "/api/views/evolution", "/charts/years.png", "/openapi.yaml", "/api-docs", "/dashboard", "/"} {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And CORS is applied to the whole mux", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/state", http.NoBody)
			req.Header.Set("Origin", "https://panel.example.org")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			convey.So(rec.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://panel.example.org")
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			t.Setenv("VISITAS_ADDR", " ")

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the workbook is missing", func() {
			cfg := config.New()
			cfg.SourcePath = filepath.Join(os.TempDir(), "visitas-missing-workbook.xlsx")
			svc := newService(cfg, logger.Get())

			convey.Convey("Then the service still starts and reports the load failure", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
				defer svc.Stop()

				rec := httptest.NewRecorder()
				newHandler(context.Background(), cfg, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusServiceUnavailable)
				convey.So(svc.GetStats().Cache.LoadFailures, convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
