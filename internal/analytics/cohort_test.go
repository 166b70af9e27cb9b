package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalviz/internal/assessment/models"
)

func scored(score float64) models.AssessmentRecord {
	return models.AssessmentRecord{Data: models.RecordData{RawScore: score}}
}

func TestCohortStatsScenario(t *testing.T) {
	// records [30, 55, 0] -> buckets 21-30:1, 50+:1, 0-20:1; avgScore 28.3
	stats := CohortStats([]models.AssessmentRecord{scored(30), scored(55), scored(0)})

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 28.3, stats.AvgScore)

	counts := make(map[string]int)
	total := 0
	for _, b := range stats.ScoreDistribution {
		counts[b.Name] = b.Count
		total += b.Count
	}
	assert.Equal(t, 1, counts["0-20"])
	assert.Equal(t, 1, counts["21-30"])
	assert.Equal(t, 0, counts["31-40"])
	assert.Equal(t, 0, counts["41-50"])
	assert.Equal(t, 1, counts["50+"])
	assert.Equal(t, stats.Total, total, "buckets must partition the record set")
}

func TestCohortStatsEmptySet(t *testing.T) {
	stats := CohortStats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.AvgScore, "empty cohort averages to 0, not NaN")
	assert.Equal(t, 0.0, stats.AvgTime)
	assert.Equal(t, 0, stats.FlaggedCount)
	assert.NotNil(t, stats.CohortAverages)
	assert.Len(t, stats.ScoreDistribution, 5)
}

func TestCohortStatsHistogramBoundaries(t *testing.T) {
	stats := CohortStats([]models.AssessmentRecord{
		scored(0), scored(20), scored(21), scored(30), scored(31),
		scored(40), scored(41), scored(50), scored(51), scored(5000),
	})
	want := map[string]int{"0-20": 2, "21-30": 2, "31-40": 2, "41-50": 2, "50+": 2}
	for _, b := range stats.ScoreDistribution {
		assert.Equal(t, want[b.Name], b.Count, "bucket %s", b.Name)
	}
}

func TestCohortStatsArchetypes(t *testing.T) {
	records := []models.AssessmentRecord{
		{Data: models.RecordData{CurrentArchetype: &models.Archetype{Title: "Strategist"}}},
		{Data: models.RecordData{CurrentArchetype: &models.Archetype{Title: "Strategist"}}},
		{Data: models.RecordData{Archetype: "Explorer"}},
		{},
	}
	stats := CohortStats(records)

	assert.Equal(t, 2, stats.ArchetypeCounts["Strategist"])
	assert.Equal(t, 1, stats.ArchetypeCounts["Explorer"])
	assert.Equal(t, 1, stats.ArchetypeCounts["Unknown"])

	require.Len(t, stats.ArchetypeData, 3)
	assert.Equal(t, NameValue{Name: "Strategist", Value: 2}, stats.ArchetypeData[0])
}

func TestCohortStatsSubscoreAverages(t *testing.T) {
	records := []models.AssessmentRecord{
		{Data: models.RecordData{DerivedSignals: &models.DerivedSignals{Subscores: map[string]models.SubscoreValue{
			"logic":  {Number: 8},
			"verbal": {Scored: &models.Scored{Score: 6, Max: 12}},
		}}}},
		{Data: models.RecordData{DerivedSignals: &models.DerivedSignals{Subscores: map[string]models.SubscoreValue{
			"logic": {Number: 4},
		}}}},
		{}, // no subscores: contributes to no denominator
	}
	stats := CohortStats(records)

	assert.Equal(t, 6.0, stats.CohortAverages["logic"])
	// verbal seen in one record only; its denominator is 1
	assert.Equal(t, 6.0, stats.CohortAverages["verbal"])
}

func TestCohortStatsFlaggedUnion(t *testing.T) {
	base := models.RecordData{TimeTakenTotalSec: 100}
	records := []models.AssessmentRecord{
		// auto: blur count over threshold
		{Data: models.RecordData{TimeTakenTotalSec: 100, Telemetry: &models.Telemetry{BlurCount: 3}}},
		// auto AND manual: must count once
		{
			Data:        models.RecordData{TimeTakenTotalSec: 100, Telemetry: &models.Telemetry{BlurCount: 5}},
			Annotations: models.Annotations{"flagged": true},
		},
		// manual only
		{Data: base, Annotations: models.Annotations{"flagged": true}},
		// clean
		{Data: base},
	}
	stats := CohortStats(records)
	assert.Equal(t, 3, stats.FlaggedCount)
}

func TestCohortStatsFastCompletionAutoFlag(t *testing.T) {
	// avgTime = (100+100+10)/3 = 70; 10 < 21 trips the 30% rule.
	records := []models.AssessmentRecord{
		{Data: models.RecordData{TimeTakenTotalSec: 100}},
		{Data: models.RecordData{TimeTakenTotalSec: 100}},
		{Data: models.RecordData{TimeTakenTotalSec: 10}},
	}
	stats := CohortStats(records)
	assert.Equal(t, 1, stats.FlaggedCount)
}

func TestCohortStatsMissingDurationNotAutoFlagged(t *testing.T) {
	// A record with no recorded duration must not trip the fast-completion
	// rule even though 0 < avgTime*0.3.
	records := []models.AssessmentRecord{
		{Data: models.RecordData{TimeTakenTotalSec: 500}},
		{Data: models.RecordData{TimeTakenTotalSec: 500}},
		{}, // no duration
	}
	stats := CohortStats(records)
	assert.Equal(t, 0, stats.FlaggedCount)
}

func TestCohortStatsAvgTimeRounding(t *testing.T) {
	records := []models.AssessmentRecord{
		{Data: models.RecordData{TimeTakenTotalSec: 100}},
		{Data: models.RecordData{TimeTakenTotalSec: 101}},
	}
	stats := CohortStats(records)
	assert.Equal(t, 101.0, stats.AvgTime)
}
