package analytics

import (
	"sort"

	"signalviz/internal/assessment/models"
)

// CompetencyPoint compares one subscore between the record and the cohort on
// a shared 0-10 scale.
type CompetencyPoint struct {
	Subject    string  `json:"subject"`
	Individual float64 `json:"individual"`
	Cohort     float64 `json:"cohort"`
	FullMark   float64 `json:"fullMark"`
	RawScore   float64 `json:"rawScore"`
	RawMax     float64 `json:"maxRaw"`
	CohortRaw  float64 `json:"cohortRaw"`
}

// CompetencyProfile normalizes each of the record's subscores to 0-10 and
// pairs it with the cohort average for the same key. The cohort value is
// scaled by this record's max, not a cohort-wide one, so records that
// disagree on a key's max render different cohort bars for the same
// average. Points are ordered by subject for deterministic output.
func CompetencyProfile(rec models.AssessmentRecord, cohortAverages map[string]float64) []CompetencyPoint {
	subscores := rec.Subscores()
	keys := make([]string, 0, len(subscores))
	for key := range subscores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]CompetencyPoint, 0, len(keys))
	for _, key := range keys {
		score, max := subscores[key].Resolve()
		cohortRaw := cohortAverages[key]
		points = append(points, CompetencyPoint{
			Subject:    key,
			Individual: score / max * 10,
			Cohort:     cohortRaw / max * 10,
			FullMark:   10,
			RawScore:   score,
			RawMax:     max,
			CohortRaw:  round1(cohortRaw),
		})
	}
	return points
}
