package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalviz/internal/assessment/models"
)

func TestCompetencyProfile(t *testing.T) {
	rec := models.AssessmentRecord{Data: models.RecordData{
		DerivedSignals: &models.DerivedSignals{Subscores: map[string]models.SubscoreValue{
			"logic":  {Scored: &models.Scored{Score: 9, Max: 15}},
			"verbal": {Number: 6},
		}},
	}}
	cohort := map[string]float64{"logic": 7.5, "verbal": 4}

	points := CompetencyProfile(rec, cohort)
	require.Len(t, points, 2)

	// sorted by subject for deterministic output
	logic := points[0]
	assert.Equal(t, "logic", logic.Subject)
	assert.InDelta(t, 6.0, logic.Individual, 1e-9) // 9/15*10
	// cohort average scaled by this record's max: 7.5/15*10
	assert.InDelta(t, 5.0, logic.Cohort, 1e-9)
	assert.Equal(t, 9.0, logic.RawScore)
	assert.Equal(t, 15.0, logic.RawMax)
	assert.Equal(t, 7.5, logic.CohortRaw)

	verbal := points[1]
	assert.Equal(t, "verbal", verbal.Subject)
	assert.InDelta(t, 5.0, verbal.Individual, 1e-9) // 6/12*10
	assert.Equal(t, float64(models.DefaultSubscoreMax), verbal.RawMax)
}

func TestCompetencyProfileUnknownCohortKey(t *testing.T) {
	rec := models.AssessmentRecord{Data: models.RecordData{
		DerivedSignals: &models.DerivedSignals{Subscores: map[string]models.SubscoreValue{
			"spatial": {Number: 3},
		}},
	}}
	points := CompetencyProfile(rec, nil)
	require.Len(t, points, 1)
	assert.Equal(t, 0.0, points[0].Cohort)
	assert.Equal(t, 0.0, points[0].CohortRaw)
}

func TestCompetencyProfileNoSubscores(t *testing.T) {
	assert.Empty(t, CompetencyProfile(models.AssessmentRecord{}, nil))
}
