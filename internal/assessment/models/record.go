// Package models defines the assessment record shape shared by stores,
// services and the analytics engine. Records arrive as free-form research
// exports, so every nested field is optional and readers must tolerate
// missing data.
package models

// AssessmentRecord is one participant's uploaded assessment.
type AssessmentRecord struct {
	ID          string      `json:"id" bson:"id"`
	Data        RecordData  `json:"data" bson:"data"`
	Annotations Annotations `json:"annotations,omitempty" bson:"annotations,omitempty"`
}

// RecordData carries the assessment payload captured at submission time.
type RecordData struct {
	Email             string          `json:"email,omitempty" bson:"email,omitempty"`
	RawScore          float64         `json:"rawScore,omitempty" bson:"rawScore,omitempty"`
	TimeTakenTotalSec float64         `json:"timeTakenTotalSec,omitempty" bson:"timeTakenTotalSec,omitempty"`
	Timestamp         *Timestamp      `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	CurrentArchetype  *Archetype      `json:"currentArchetype,omitempty" bson:"currentArchetype,omitempty"`
	Archetype         string          `json:"archetype,omitempty" bson:"archetype,omitempty"`
	DerivedSignals    *DerivedSignals `json:"derivedSignals,omitempty" bson:"derivedSignals,omitempty"`
	Answers           []Answer        `json:"answers,omitempty" bson:"answers,omitempty"`
	Telemetry         *Telemetry      `json:"telemetry,omitempty" bson:"telemetry,omitempty"`
}

// Timestamp mirrors the exported Firestore-style timestamp shape.
type Timestamp struct {
	Seconds int64 `json:"_seconds" bson:"_seconds"`
}

// Archetype is the categorical result profile assigned to a participant.
type Archetype struct {
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Desc  string `json:"desc,omitempty" bson:"desc,omitempty"`
}

// DerivedSignals holds scores computed by the assessment pipeline upstream.
type DerivedSignals struct {
	Subscores           map[string]SubscoreValue `json:"subscores,omitempty" bson:"subscores,omitempty"`
	IntegrityScore      *float64                 `json:"integrityScore,omitempty" bson:"integrityScore,omitempty"`
	EstimatedPercentile *float64                 `json:"estimatedPercentile,omitempty" bson:"estimatedPercentile,omitempty"`
}

// Answer is one scored response, in presentation order.
type Answer struct {
	QID   string  `json:"qId" bson:"qId"`
	Score float64 `json:"score,omitempty" bson:"score,omitempty"`
}

// Telemetry captures interaction metadata recorded while the assessment ran.
type Telemetry struct {
	PerQ          map[string]PerQuestion `json:"perQ,omitempty" bson:"perQ,omitempty"`
	BlurCount     int                    `json:"blurCount,omitempty" bson:"blurCount,omitempty"`
	IdleMs        float64                `json:"idleMs,omitempty" bson:"idleMs,omitempty"`
	LastInputMode string                 `json:"lastInputMode,omitempty" bson:"lastInputMode,omitempty"`
}

// PerQuestion is the timing and interaction detail for one question.
type PerQuestion struct {
	TotalTimeOnQuestionMs float64 `json:"totalTimeOnQuestionMs,omitempty" bson:"totalTimeOnQuestionMs,omitempty"`
	AnswerChangesCount    int     `json:"answerChangesCount,omitempty" bson:"answerChangesCount,omitempty"`
	RevisitsCount         int     `json:"revisitsCount,omitempty" bson:"revisitsCount,omitempty"`
}

// QuestionTelemetry returns the per-question telemetry for qID. A miss
// degrades to the zero value, never an error.
func (r AssessmentRecord) QuestionTelemetry(qID string) PerQuestion {
	if r.Data.Telemetry == nil {
		return PerQuestion{}
	}
	return r.Data.Telemetry.PerQ[qID]
}

// BlurCount returns the tab-blur count, zero when telemetry is absent.
func (r AssessmentRecord) BlurCount() int {
	if r.Data.Telemetry == nil {
		return 0
	}
	return r.Data.Telemetry.BlurCount
}

// TimestampSeconds returns the submission epoch seconds, zero when absent.
func (r AssessmentRecord) TimestampSeconds() int64 {
	if r.Data.Timestamp == nil {
		return 0
	}
	return r.Data.Timestamp.Seconds
}

// ResolvedArchetype returns the display archetype: the current archetype
// title, the legacy string field, or "Unknown".
func (r AssessmentRecord) ResolvedArchetype() string {
	if r.Data.CurrentArchetype != nil && r.Data.CurrentArchetype.Title != "" {
		return r.Data.CurrentArchetype.Title
	}
	if r.Data.Archetype != "" {
		return r.Data.Archetype
	}
	return "Unknown"
}

// Subscores returns the subscore map, nil-safe.
func (r AssessmentRecord) Subscores() map[string]SubscoreValue {
	if r.Data.DerivedSignals == nil {
		return nil
	}
	return r.Data.DerivedSignals.Subscores
}
