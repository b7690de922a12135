package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				m.jobsPosted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_jobs_posted_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering the same manager twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Counters move when recorded", func() {
			before := testutil.ToFloat64(globalManager.resumesProcessed)
			RecordResumeProcessed()
			So(testutil.ToFloat64(globalManager.resumesProcessed), ShouldEqual, before+1)

			RecordSkillsExtracted("job", 3)
			So(testutil.ToFloat64(globalManager.skillsExtracted.WithLabelValues("job")), ShouldBeGreaterThanOrEqualTo, 3)

			RecordRecommendation("ok", 1.5)
			So(testutil.ToFloat64(globalManager.recommendationsServed.WithLabelValues("ok")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("Gauges hold the last value", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateWorkerCount(4)
			So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
			So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 100)
			So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
		})

		Convey("None of the recorders panic", func() {
			So(func() {
				RecordResumeUploaded()
				RecordResumeFailed()
				RecordResumeDuplicate()
				RecordJobPosted()
				RecordApplicationCreated()
				RecordAuthAttempt("login", "ok")
				RecordEventPublished("job.posted", "ok")
				RecordStoreLatency("memory", "get", 0.2)
				RecordStoreError("sqlite", "put")
				RecordHTTPRequest("jobs", "GET", "200")
				RecordHTTPRequestDuration("jobs", "GET", "200", 3)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueRejected()
				RecordQueueWait(2)
				IncWorkerActive()
				DecWorkerActive()
				RecordWorkerError()
				RecordWorkerProcessingLatency(5)
				RecordErrorByComponent("api", "not_found")
				RecordErrorByEndpoint("jobs", "GET", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("The registry exposes the jobmatch namespace", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "jobmatch_portal_"), ShouldBeTrue)
			}
		})
	})
}
