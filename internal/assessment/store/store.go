// Package store persists assessment records behind a single interface so
// the service and analytics layers never see a concrete backend. Three
// implementations exist: a JSON file (default), MongoDB, and an in-memory
// store for tests.
package store

import (
	"context"

	"signalviz/internal/assessment/models"
	dErrors "signalviz/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across backends.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "assessment not found")

	// ErrDuplicateID surfaces a lost append race: two concurrent appends
	// passed the dedup check for the same id. Callers may retry.
	ErrDuplicateID = dErrors.New(dErrors.CodeConflict, "duplicate assessment id")
)

// RecordStore is the persistence contract for assessment records.
type RecordStore interface {
	// List returns every stored record.
	List(ctx context.Context) ([]models.AssessmentRecord, error)

	// ReplaceAll discards the current contents and stores records.
	ReplaceAll(ctx context.Context, records []models.AssessmentRecord) error

	// AppendNew inserts only records whose id is not already present,
	// returning how many were inserted.
	AppendNew(ctx context.Context, records []models.AssessmentRecord) (int, error)

	// Get returns the record with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (models.AssessmentRecord, error)

	// Update replaces the stored record with the same id or returns
	// ErrNotFound. Last write wins; there is no cross-request locking.
	Update(ctx context.Context, record models.AssessmentRecord) error

	// Delete removes the record with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteAll clears the store.
	DeleteAll(ctx context.Context) error
}
