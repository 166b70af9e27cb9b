package analytics

import "signalviz/internal/assessment/models"

// ChronoPoint is one answer's position on the response-latency series.
type ChronoPoint struct {
	QID     string  `json:"id"`
	Index   int     `json:"index"`
	TimeMs  float64 `json:"timeMs"`
	TimeSec float64 `json:"timeSec"`
	Score   float64 `json:"score"`
}

// Chronometry is the per-record latency series plus the record's average
// response time, which doubles as the behavioral-tag threshold.
type Chronometry struct {
	Points    []ChronoPoint `json:"points"`
	AvgTimeMs float64       `json:"avgTimeMs"`
}

// Chronometrics walks the answers in original order and emits one point per
// answer. The average counts only answers with a positive recorded time; a
// record with no timing data averages to 0.
func Chronometrics(rec models.AssessmentRecord) Chronometry {
	var totalTime float64
	var validCount int

	points := make([]ChronoPoint, 0, len(rec.Data.Answers))
	for i, ans := range rec.Data.Answers {
		timeMs := rec.QuestionTelemetry(ans.QID).TotalTimeOnQuestionMs
		if timeMs > 0 {
			totalTime += timeMs
			validCount++
		}
		points = append(points, ChronoPoint{
			QID:     ans.QID,
			Index:   i + 1,
			TimeMs:  timeMs,
			TimeSec: round2(timeMs / 1000),
			Score:   ans.Score,
		})
	}

	var avg float64
	if validCount > 0 {
		avg = totalTime / float64(validCount)
	}
	return Chronometry{Points: points, AvgTimeMs: avg}
}
