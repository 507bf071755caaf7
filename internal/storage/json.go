package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ftr/internal/domain"
)

// Save writes the run summary and failures to the configured JSON output file.
func (s *JSONStorage) Save(summary domain.RunSummary, failures []domain.TestFailure) error {
	started := summary.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	output := domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           summary.RunID,
			TotalTestFiles:  summary.Total,
			FailedTestFiles: summary.Failed,
			PassedTestFiles: summary.Passed,
			ScanErrors:      summary.ScanErrors,
			Duration:        summary.Elapsed.String(),
			DurationSeconds: summary.Elapsed.Seconds(),
			Workers:         summary.Workers,
			Timestamp:       started.Format(time.RFC3339),
		},
		Details: failures,
	}
	if output.Details == nil {
		output.Details = []domain.TestFailure{}
	}
	return s.SaveOutput(&output)
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file (e.g. after marking failures resolved).
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
