package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftr/internal/domain"
)

func summary() domain.RunSummary {
	return domain.RunSummary{
		Elapsed:    2 * time.Second,
		ScanErrors: 2,
		Workers:    4,
		Jobs: []domain.JobResult{
			{ID: 0, Passed: true, Elapsed: 5 * time.Millisecond},
			{ID: 1, Passed: true, Elapsed: 30 * time.Millisecond},
			{ID: 2, Description: "boom"},
		},
	}
}

func TestRunMetrics_Observe(t *testing.T) {
	m := New()
	m.Observe(summary())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobs.WithLabelValues("passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.scanErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runSeconds))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.workers))

	n, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestRunMetrics_ZeroFailures(t *testing.T) {
	m := New()
	m.Observe(domain.RunSummary{})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.jobs.WithLabelValues("failed")))
}

func TestRunMetrics_WriteFile(t *testing.T) {
	m := New()
	m.Observe(summary())

	path := filepath.Join(t.TempDir(), "ftr.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `ftr_jobs_total{result="failed"} 1`)
	assert.Contains(t, text, `ftr_jobs_total{result="passed"} 2`)
	assert.Contains(t, text, "ftr_job_duration_seconds_count 2")
	assert.Contains(t, text, "ftr_scan_errors_total 2")
}

func TestRunMetrics_WriteFileBadDir(t *testing.T) {
	m := New()
	err := m.WriteFile(filepath.Join(t.TempDir(), "missing", "ftr.prom"))
	assert.Error(t, err)
}
