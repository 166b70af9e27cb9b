package analytics

// BehaviorTag labels one answer's response pattern relative to the record's
// average response time.
type BehaviorTag string

const (
	TagConfident  BehaviorTag = "Confident"
	TagRushed     BehaviorTag = "Rushed"
	TagDeliberate BehaviorTag = "Deliberate"
	TagStruggling BehaviorTag = "Struggling"
)

// ClassifyResponse tags an answer as fast or slow against the record average
// and crosses that with correctness. The comparisons are strict: an answer
// at exactly half or 1.5x the average falls in the neutral zone and gets no
// tag (ok is false).
func ClassifyResponse(timeMs, avgTimeMs, score float64) (BehaviorTag, bool) {
	fast := timeMs < avgTimeMs*0.5
	slow := timeMs > avgTimeMs*1.5
	correct := score > 0

	switch {
	case fast && correct:
		return TagConfident, true
	case fast:
		return TagRushed, true
	case slow && correct:
		return TagDeliberate, true
	case slow:
		return TagStruggling, true
	default:
		return "", false
	}
}
