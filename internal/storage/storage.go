package storage

import (
	"errors"

	"github.com/google/uuid"

	"ftr/internal/config"
	"ftr/internal/domain"
)

// Storage persists the results of a finished run.
type Storage interface {
	Save(summary domain.RunSummary, failures []domain.TestFailure) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Multi saves to every store in order and joins their errors.
type Multi []Storage

// Save implements Storage.
func (m Multi) Save(summary domain.RunSummary, failures []domain.TestFailure) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(summary, failures); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
