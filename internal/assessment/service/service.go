// Package service implements assessment business logic on top of the record
// store: uploads, listing, annotation patches, deletion, and the derived
// analytics views.
package service

import (
	"context"
	"log/slog"
	"strings"

	"signalviz/internal/analytics"
	"signalviz/internal/assessment/models"
	"signalviz/internal/assessment/store"
	"signalviz/internal/platform/metrics"
	dErrors "signalviz/pkg/domain-errors"
)

// UploadMode selects how an upload combines with existing records.
type UploadMode string

const (
	// ModeReplace discards all stored records before inserting the upload.
	ModeReplace UploadMode = "replace"
	// ModeAppend inserts only records whose id is not already stored.
	ModeAppend UploadMode = "append"
)

// ParseUploadMode validates a mode string, defaulting empty to replace.
func ParseUploadMode(s string) (UploadMode, error) {
	switch UploadMode(strings.ToLower(s)) {
	case "", ModeReplace:
		return ModeReplace, nil
	case ModeAppend:
		return ModeAppend, nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "invalid upload mode %q, expected replace or append", s)
	}
}

// UploadResult reports what an upload did.
type UploadResult struct {
	Count int        `json:"count"`
	Mode  UploadMode `json:"mode"`
}

// AnalyzedItem is one answer enriched with its telemetry and behavioral tag.
type AnalyzedItem struct {
	QID           string                `json:"qId"`
	Score         float64               `json:"score"`
	TimeMs        float64               `json:"timeMs"`
	AnswerChanges int                   `json:"answerChanges"`
	Revisits      int                   `json:"revisits"`
	Behavior      analytics.BehaviorTag `json:"behavior,omitempty"`
}

// IntegritySummary surfaces the session-level signals reviewers check when
// deciding whether a record is trustworthy.
type IntegritySummary struct {
	BlurCount           int      `json:"blurCount"`
	IdleMs              float64  `json:"idleMs"`
	LastInputMode       string   `json:"lastInputMode,omitempty"`
	IntegrityScore      *float64 `json:"integrityScore,omitempty"`
	EstimatedPercentile *float64 `json:"estimatedPercentile,omitempty"`
}

// RecordAnalysis is the full derived view of a single record.
type RecordAnalysis struct {
	ID          string                      `json:"id"`
	Archetype   string                      `json:"archetype"`
	Traits      []analytics.TraitRow        `json:"traits"`
	Chronometry analytics.Chronometry       `json:"chronometry"`
	Items       []AnalyzedItem              `json:"items"`
	Competency  []analytics.CompetencyPoint `json:"competency"`
	Integrity   IntegritySummary            `json:"integrity"`
}

// Service coordinates the record store with the analytics engine.
type Service struct {
	store   store.RecordStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates an assessment service.
func New(st store.RecordStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, logger: logger, metrics: m}
}

// List returns stored records filtered, searched, and sorted per opts.
func (s *Service) List(ctx context.Context, opts analytics.QueryOptions) ([]models.AssessmentRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to read data", err)
	}
	return analytics.Query(records, opts), nil
}

// Upload parses a raw upload payload, assigns ids where missing, and stores
// the records according to mode. The returned count is how many records the
// store actually accepted; in append mode, already-present ids are skipped.
func (s *Service) Upload(ctx context.Context, payload []byte, mode UploadMode) (UploadResult, error) {
	records, err := models.ParseUploadPayload(payload)
	if err != nil {
		return UploadResult{}, err
	}
	models.EnsureIDs(records)

	var count int
	switch mode {
	case ModeAppend:
		count, err = s.store.AppendNew(ctx, records)
	default:
		err = s.store.ReplaceAll(ctx, records)
		count = len(records)
	}
	if err != nil {
		return UploadResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to save data", err)
	}

	s.metrics.RecordsUploaded.Add(float64(count))
	s.logger.InfoContext(ctx, "upload accepted", "mode", mode, "received", len(records), "stored", count)
	return UploadResult{Count: count, Mode: mode}, nil
}

// UpdateAnnotations shallow-merges patch into the record's annotations and
// persists the result. Top-level keys in patch overwrite existing keys;
// other keys survive. When updatedBy is non-empty it is stamped into the
// merged annotations.
func (s *Service) UpdateAnnotations(ctx context.Context, id string, patch map[string]any, updatedBy string) (models.Annotations, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := record.Annotations.Merge(patch)
	if updatedBy != "" {
		merged["lastUpdatedBy"] = updatedBy
	}
	record.Annotations = merged

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.AnnotationUpdates.Inc()
	return merged, nil
}

// Delete removes one record by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordsDeleted.Inc()
	return nil
}

// Clear removes every stored record.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to clear data", err)
	}
	s.logger.InfoContext(ctx, "all records cleared")
	return nil
}

// Stats recomputes the cohort view from the full record set.
func (s *Service) Stats(ctx context.Context) (analytics.Stats, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return analytics.Stats{}, dErrors.Wrap(dErrors.CodeInternal, "failed to read data", err)
	}
	return analytics.CohortStats(records), nil
}

// Analyze derives the full single-record view: trait aggregates, the
// latency series, per-answer behavioral tags, the competency profile
// against current cohort averages, and the integrity summary.
func (s *Service) Analyze(ctx context.Context, id string) (RecordAnalysis, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return RecordAnalysis{}, err
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return RecordAnalysis{}, dErrors.Wrap(dErrors.CodeInternal, "failed to read data", err)
	}
	cohort := analytics.CohortStats(records)

	chrono := analytics.Chronometrics(record)
	items := make([]AnalyzedItem, 0, len(record.Data.Answers))
	for _, ans := range record.Data.Answers {
		perQ := record.QuestionTelemetry(ans.QID)
		item := AnalyzedItem{
			QID:           ans.QID,
			Score:         ans.Score,
			TimeMs:        perQ.TotalTimeOnQuestionMs,
			AnswerChanges: perQ.AnswerChangesCount,
			Revisits:      perQ.RevisitsCount,
		}
		if tag, ok := analytics.ClassifyResponse(perQ.TotalTimeOnQuestionMs, chrono.AvgTimeMs, ans.Score); ok {
			item.Behavior = tag
		}
		items = append(items, item)
	}

	analysis := RecordAnalysis{
		ID:          record.ID,
		Archetype:   record.ResolvedArchetype(),
		Traits:      analytics.AnalyzeTraits(record),
		Chronometry: chrono,
		Items:       items,
		Competency:  analytics.CompetencyProfile(record, cohort.CohortAverages),
		Integrity: IntegritySummary{
			BlurCount:     record.BlurCount(),
			LastInputMode: lastInputMode(record),
			IdleMs:        idleMs(record),
		},
	}
	if ds := record.Data.DerivedSignals; ds != nil {
		analysis.Integrity.IntegrityScore = ds.IntegrityScore
		analysis.Integrity.EstimatedPercentile = ds.EstimatedPercentile
	}
	return analysis, nil
}

func lastInputMode(rec models.AssessmentRecord) string {
	if rec.Data.Telemetry == nil {
		return ""
	}
	return rec.Data.Telemetry.LastInputMode
}

func idleMs(rec models.AssessmentRecord) float64 {
	if rec.Data.Telemetry == nil {
		return 0
	}
	return rec.Data.Telemetry.IdleMs
}
