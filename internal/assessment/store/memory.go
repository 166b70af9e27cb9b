package store

import (
	"context"
	"sync"

	"signalviz/internal/assessment/models"
)

// MemoryStore keeps records in an ordered slice, mirroring the file store's
// array semantics. It backs tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.AssessmentRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context) ([]models.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AssessmentRecord(nil), s.records...), nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, records []models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.AssessmentRecord(nil), records...)
	return nil
}

func (s *MemoryStore) AppendNew(_ context.Context, records []models.AssessmentRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.records))
	for _, rec := range s.records {
		existing[rec.ID] = struct{}{}
	}

	inserted := 0
	for _, rec := range records {
		if _, ok := existing[rec.ID]; ok {
			continue
		}
		existing[rec.ID] = struct{}{}
		s.records = append(s.records, rec)
		inserted++
	}
	return inserted, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.AssessmentRecord{}, ErrNotFound
}

func (s *MemoryStore) Update(_ context.Context, record models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == record.ID {
			s.records[i] = record
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
