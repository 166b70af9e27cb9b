package analytics

import (
	"encoding/json"
	"sort"
	"strings"

	"signalviz/internal/assessment/models"
)

// SortKey selects the comparison field for record ordering.
type SortKey string

const (
	SortByTimestamp SortKey = "timestamp"
	SortByScore     SortKey = "score"
	SortByTime      SortKey = "time"
)

// SortDir selects ascending or descending order.
type SortDir string

const (
	Ascending  SortDir = "asc"
	Descending SortDir = "desc"
)

// QueryOptions filters and orders a record set for listing.
type QueryOptions struct {
	// Archetype restricts to records whose resolved archetype matches
	// exactly. Empty or "All" keeps everything.
	Archetype string
	// Search is matched case-insensitively as a substring of email or id.
	Search string
	// Key and Dir default to timestamp descending.
	Key SortKey
	Dir SortDir
}

// Query applies filter, search, and sort in that order, returning a new
// slice. The input is never mutated.
func Query(records []models.AssessmentRecord, opts QueryOptions) []models.AssessmentRecord {
	result := FilterByArchetype(records, opts.Archetype)
	result = Search(result, opts.Search)

	key := opts.Key
	if key == "" {
		key = SortByTimestamp
	}
	dir := opts.Dir
	if dir == "" {
		dir = Descending
	}
	return Sort(result, key, dir)
}

// FilterByArchetype keeps records whose resolved archetype label equals
// archetype exactly. Empty or "All" keeps everything.
func FilterByArchetype(records []models.AssessmentRecord, archetype string) []models.AssessmentRecord {
	if archetype == "" || archetype == "All" {
		return append([]models.AssessmentRecord(nil), records...)
	}
	result := make([]models.AssessmentRecord, 0, len(records))
	for _, rec := range records {
		if rec.ResolvedArchetype() == archetype {
			result = append(result, rec)
		}
	}
	return result
}

// Search keeps records whose email or id contains term, case-insensitively.
// An empty term keeps everything.
func Search(records []models.AssessmentRecord, term string) []models.AssessmentRecord {
	if term == "" {
		return append([]models.AssessmentRecord(nil), records...)
	}
	lower := strings.ToLower(term)
	result := make([]models.AssessmentRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Data.Email), lower) ||
			strings.Contains(strings.ToLower(rec.ID), lower) {
			result = append(result, rec)
		}
	}
	return result
}

func sortValue(rec models.AssessmentRecord, key SortKey) float64 {
	switch key {
	case SortByScore:
		return rec.Data.RawScore
	case SortByTime:
		return rec.Data.TimeTakenTotalSec
	default:
		return float64(rec.TimestampSeconds())
	}
}

// Sort orders records by the given key with numeric comparison, returning a
// new slice. Missing fields sort as 0. The sort is stable.
func Sort(records []models.AssessmentRecord, key SortKey, dir SortDir) []models.AssessmentRecord {
	result := append([]models.AssessmentRecord(nil), records...)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := sortValue(result[i], key), sortValue(result[j], key)
		if dir == Ascending {
			return a < b
		}
		return a > b
	})
	return result
}

// SortByPath orders records by a dotted path resolved through the record's
// JSON shape, e.g. "data.telemetry.blurCount". Missing intermediate objects
// short-circuit: records without the path sort as absent, after present
// values in either direction. Numbers compare numerically, strings
// lexicographically.
func SortByPath(records []models.AssessmentRecord, path string, dir SortDir) []models.AssessmentRecord {
	segments := strings.Split(path, ".")
	values := make([]any, len(records))
	present := make([]bool, len(records))
	for i, rec := range records {
		values[i], present[i] = pathValue(rec, segments)
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool {
		i, j := idx[x], idx[y]
		if present[i] != present[j] {
			return present[i]
		}
		if !present[i] {
			return false
		}
		cmp := compareValues(values[i], values[j])
		if dir == Ascending {
			return cmp < 0
		}
		return cmp > 0
	})

	result := make([]models.AssessmentRecord, len(records))
	for x, i := range idx {
		result[x] = records[i]
	}
	return result
}

// pathValue walks the record's JSON representation segment by segment.
func pathValue(rec models.AssessmentRecord, segments []string) (any, bool) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, false
	}
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, false
	}

	var cur any = root
	for _, seg := range segments {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func compareValues(a, b any) int {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs)
	}
	// Mixed or non-comparable types keep their relative order.
	return 0
}
