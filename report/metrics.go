package report

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "s3suite"

// WriteMetrics writes the summary in the Prometheus text format to path, for
// pickup by the node exporter textfile collector.
func WriteMetrics(path string, summary *Summary) error {
	registry := prometheus.NewRegistry()

	tests := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "tests",
		Help:      "Number of test records of the last run by status",
	}, []string{"status"})
	testDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "test_duration_seconds",
		Help:      "Duration of each test of the last run",
	}, []string{"test", "group", "phase", "status"})
	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last run",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})

	for _, c := range []prometheus.Collector{tests, testDuration, runDuration, lastRun} {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("registering metric: %w", err)
		}
	}

	tests.WithLabelValues("passed").Set(float64(summary.Passed))
	tests.WithLabelValues("failed").Set(float64(summary.Failed))
	for _, r := range summary.Records {
		testDuration.WithLabelValues(r.Test, r.Group, r.Phase, string(r.Status)).Set(r.DurationSeconds)
	}
	runDuration.Set(summary.DurationSeconds)
	lastRun.Set(float64(time.Now().Unix()))

	return prometheus.WriteToTextfile(path, registry)
}
