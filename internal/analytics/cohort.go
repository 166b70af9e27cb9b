package analytics

import (
	"math"
	"sort"

	"signalviz/internal/assessment/models"
)

// NameValue is a labelled count, sorted for chart consumption.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Bucket is one fixed histogram bucket. Membership is inclusive on both
// ends; the last bucket is open-ended.
type Bucket struct {
	Name  string  `json:"name"`
	Min   float64 `json:"-"`
	Max   float64 `json:"-"`
	Count int     `json:"count"`
}

// Stats is the derived cohort view, recomputed from the full record set.
type Stats struct {
	Total             int                `json:"total"`
	AvgScore          float64            `json:"avgScore"`
	AvgTime           float64            `json:"avgTime"`
	ArchetypeCounts   map[string]int     `json:"archetypeCounts"`
	ArchetypeData     []NameValue        `json:"archetypeData"`
	ScoreDistribution []Bucket           `json:"scoreDistribution"`
	CohortAverages    map[string]float64 `json:"cohortAverages"`
	FlaggedCount      int                `json:"flaggedCount"`
}

// scoreBuckets returns the fixed histogram layout. The buckets partition
// [0, inf) with no overlap.
func scoreBuckets() []Bucket {
	return []Bucket{
		{Name: "0-20", Min: 0, Max: 20},
		{Name: "21-30", Min: 21, Max: 30},
		{Name: "31-40", Min: 31, Max: 40},
		{Name: "41-50", Min: 41, Max: 50},
		{Name: "50+", Min: 51, Max: math.MaxFloat64},
	}
}

// A record with no recorded duration is exempt from the slow-completion
// auto-flag rather than trivially tripping it.
const missingTimeGuardSec = 999

// CohortStats derives the cohort view from the full record set. Missing
// numeric fields count as 0; an empty set yields zeros, never NaN.
//
// Flag policy: a record is auto-flagged when its blur count exceeds 2 or it
// finished in under 30% of the cohort's average duration; FlaggedCount is
// the size of the union of auto-flagged and manually flagged records, so a
// record matching both rules counts once.
func CohortStats(records []models.AssessmentRecord) Stats {
	stats := Stats{
		ArchetypeCounts:   make(map[string]int),
		ArchetypeData:     []NameValue{},
		ScoreDistribution: scoreBuckets(),
		CohortAverages:    make(map[string]float64),
	}

	stats.Total = len(records)
	if stats.Total == 0 {
		return stats
	}

	var scoreSum, timeSum float64
	for _, rec := range records {
		scoreSum += rec.Data.RawScore
		timeSum += rec.Data.TimeTakenTotalSec
	}
	avgScore := scoreSum / float64(stats.Total)
	avgTime := timeSum / float64(stats.Total)
	stats.AvgScore = round1(avgScore)
	stats.AvgTime = math.Round(avgTime)

	for _, rec := range records {
		stats.ArchetypeCounts[rec.ResolvedArchetype()]++
	}
	for name, value := range stats.ArchetypeCounts {
		stats.ArchetypeData = append(stats.ArchetypeData, NameValue{Name: name, Value: value})
	}
	sort.SliceStable(stats.ArchetypeData, func(i, j int) bool {
		if stats.ArchetypeData[i].Value != stats.ArchetypeData[j].Value {
			return stats.ArchetypeData[i].Value > stats.ArchetypeData[j].Value
		}
		return stats.ArchetypeData[i].Name < stats.ArchetypeData[j].Name
	})

	for _, rec := range records {
		s := rec.Data.RawScore
		for i := range stats.ScoreDistribution {
			b := &stats.ScoreDistribution[i]
			if s >= b.Min && s <= b.Max {
				b.Count++
				break
			}
		}
	}

	subscoreTotals := make(map[string]float64)
	subscoreCounts := make(map[string]int)
	for _, rec := range records {
		for key, val := range rec.Subscores() {
			score, _ := val.Resolve()
			subscoreTotals[key] += score
			subscoreCounts[key]++
		}
	}
	for key, total := range subscoreTotals {
		stats.CohortAverages[key] = total / float64(subscoreCounts[key])
	}

	for _, rec := range records {
		taken := rec.Data.TimeTakenTotalSec
		if taken == 0 {
			taken = missingTimeGuardSec
		}
		auto := rec.BlurCount() > 2 || taken < avgTime*0.3
		if auto || rec.Annotations.Flagged() {
			stats.FlaggedCount++
		}
	}

	return stats
}
