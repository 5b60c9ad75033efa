package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("films"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				m.catalogFilms.Set(3)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_films_films" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering the same manager twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording recompute outcomes", func() {
			before := testutil.ToFloat64(globalManager.recomputeFilms.WithLabelValues("changed"))
			RecordRecomputeOutcome("changed")
			RecordRecomputeOutcome("changed")

			Convey("Then the labelled counter advances", func() {
				after := testutil.ToFloat64(globalManager.recomputeFilms.WithLabelValues("changed"))
				So(after-before, ShouldEqual, 2.0)
			})
		})

		Convey("When updating gauges", func() {
			UpdateCatalogFilms(42)
			UpdateQueueSize(7)
			UpdateWorkerCount(4)

			Convey("Then the gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.catalogFilms), ShouldEqual, 42.0)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7.0)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4.0)
			})
		})

		Convey("When recording queries and scores", func() {
			So(func() {
				RecordCatalogQuery("random", 3, 120)
				RecordCatalogQuery("curated", 1, 25)
				RecordScore(85)
				RecordRecomputeRun(12)
				RecordSignificantChange()
				RecordHTTPRequest("movies", "GET", "200")
				RecordHTTPRequestDuration("movies", "GET", "200", 2)
				RecordErrorByEndpoint("movies", "GET", "server_error")
				RecordErrorByComponent("repository", "not_found")
				RecordRepositoryUpsertLatency(0.5)
				RecordRepositoryQueryLatency(0.5)
				UpdateRepositoryRecordsTotal(10)
				UpdateQueueCapacity(100)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordWorkerProcessingLatency(1)
				RecordWorkerError()
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			Convey("Then the exposition contains one series per mode", func() {
				n, err := testutil.GatherAndCount(GetRegistry(), "arthouse_catalog_queries_total")
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThanOrEqualTo, 2)
			})
		})
	})
}
