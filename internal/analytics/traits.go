package analytics

import (
	"sort"
	"strings"

	"signalviz/internal/assessment/models"
)

// Trait fallbacks for identifiers that carry no group prefix.
const (
	TraitGeneral       = "General"
	TraitUncategorized = "Uncategorized"
)

// TraitOf maps an answer identifier to its trait group. Identifiers follow a
// "Trait_N" naming convention; anything without an underscore-separated
// prefix is General, and a missing identifier is Uncategorized. Total
// function: any string maps to a trait.
func TraitOf(qID string) string {
	if qID == "" {
		return TraitUncategorized
	}
	parts := strings.Split(qID, "_")
	if len(parts) > 1 {
		return parts[0]
	}
	return TraitGeneral
}

// TraitRow is one trait group's aggregate within a single record.
type TraitRow struct {
	Name       string  `json:"name"`
	AvgScore   float64 `json:"avgScore"`
	AvgTimeSec float64 `json:"avgTimeSec"`
	Count      int     `json:"count"`
}

// AnalyzeTraits groups a record's answers by trait and aggregates score and
// response time per group. The time average only counts answers with a
// positive recorded time; a trait with no timing data reports 0. Rows come
// back sorted by average score, highest first.
func AnalyzeTraits(rec models.AssessmentRecord) []TraitRow {
	type acc struct {
		totalScore float64
		count      int
		totalTime  float64
		timeCount  int
	}

	groups := make(map[string]*acc)
	var order []string
	for _, ans := range rec.Data.Answers {
		trait := TraitOf(ans.QID)
		g, ok := groups[trait]
		if !ok {
			g = &acc{}
			groups[trait] = g
			order = append(order, trait)
		}
		g.totalScore += ans.Score
		g.count++
		if t := rec.QuestionTelemetry(ans.QID).TotalTimeOnQuestionMs; t > 0 {
			g.totalTime += t
			g.timeCount++
		}
	}

	rows := make([]TraitRow, 0, len(order))
	for _, trait := range order {
		g := groups[trait]
		row := TraitRow{
			Name:     trait,
			AvgScore: round2(g.totalScore / float64(g.count)),
			Count:    g.count,
		}
		if g.timeCount > 0 {
			row.AvgTimeSec = round2(g.totalTime / float64(g.timeCount) / 1000)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AvgScore > rows[j].AvgScore
	})
	return rows
}
