// Package metrics exports per-run counters in the Prometheus text format so a
// node_exporter textfile collector can pick them up.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"ftr/internal/domain"
)

const namespace = "ftr"

// RunMetrics holds the collectors for a single run.
type RunMetrics struct {
	registry   *prometheus.Registry
	jobs       *prometheus.CounterVec
	scanErrors prometheus.Counter
	duration   prometheus.Histogram
	runSeconds prometheus.Gauge
	workers    prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Finished test files by result.",
		}, []string{"result"}),
		scanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_errors_total",
			Help:      "Directories that could not be read.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Wall time of passing test files.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		runSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the whole run.",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Worker threads used, 0 for a sequential run.",
		}),
	}
	m.registry.MustRegister(m.jobs, m.scanErrors, m.duration, m.runSeconds, m.workers)
	return m
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a finished run.
func (m *RunMetrics) Observe(s domain.RunSummary) {
	// Touch both label values so they are exported even when zero.
	passed := m.jobs.WithLabelValues("passed")
	failed := m.jobs.WithLabelValues("failed")
	for _, j := range s.Jobs {
		if j.Passed {
			passed.Inc()
			m.duration.Observe(j.Elapsed.Seconds())
		} else {
			failed.Inc()
		}
	}
	m.scanErrors.Add(float64(s.ScanErrors))
	m.runSeconds.Set(s.Elapsed.Seconds())
	m.workers.Set(float64(s.Workers))
}

// WriteFile writes all metrics to path atomically.
func (m *RunMetrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
