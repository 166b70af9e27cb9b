package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"signalviz/internal/assessment/models"
	dErrors "signalviz/pkg/domain-errors"
)

// FileStore persists records as a single JSON array. Every write rewrites
// the whole file through a temp file and rename; a process-local mutex
// serializes access. A missing file reads as empty; a corrupt one reads as
// empty with a logged warning so one bad write cannot brick the dashboard.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFile creates a file store at path, creating parent directories as
// needed.
func NewFile(path string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to prepare data directory", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (s *FileStore) load() ([]models.AssessmentRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to read data file", err)
	}

	var records []models.AssessmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("data file is corrupt, treating as empty",
			"path", s.path,
			"error", err,
		)
		return nil, nil
	}
	return records, nil
}

func (s *FileStore) save(records []models.AssessmentRecord) error {
	if records == nil {
		records = []models.AssessmentRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to encode records", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to create temp data file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return dErrors.Wrap(dErrors.CodeInternal, "failed to write data file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return dErrors.Wrap(dErrors.CodeInternal, "failed to close data file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return dErrors.Wrap(dErrors.CodeInternal, "failed to replace data file", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]models.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) ReplaceAll(_ context.Context, records []models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(records)
}

func (s *FileStore) AppendNew(_ context.Context, records []models.AssessmentRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return 0, err
	}

	existing := make(map[string]struct{}, len(current))
	for _, rec := range current {
		existing[rec.ID] = struct{}{}
	}

	inserted := 0
	for _, rec := range records {
		if _, ok := existing[rec.ID]; ok {
			continue
		}
		existing[rec.ID] = struct{}{}
		current = append(current, rec)
		inserted++
	}
	if inserted == 0 {
		return 0, nil
	}
	return inserted, s.save(current)
}

func (s *FileStore) Get(_ context.Context, id string) (models.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.AssessmentRecord{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.AssessmentRecord{}, ErrNotFound
}

func (s *FileStore) Update(_ context.Context, record models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == record.ID {
			records[i] = record
			return s.save(records)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == id {
			records = append(records[:i], records[i+1:]...)
			return s.save(records)
		}
	}
	return ErrNotFound
}

func (s *FileStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(nil)
}
