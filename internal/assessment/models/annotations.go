package models

// Annotations is the researcher-entered metadata attached to a record after
// review. It stays a free-form map so PATCH semantics are a true shallow
// merge: keys present in the patch override, absent keys survive. A nil map
// means unreviewed and not flagged.
//
// Well-known keys: "label", "flagged", "notes", "lastUpdatedBy".
type Annotations map[string]any

// Merge returns a new Annotations with patch applied over a. Neither input
// is mutated.
func (a Annotations) Merge(patch map[string]any) Annotations {
	merged := make(Annotations, len(a)+len(patch))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Flagged reports whether the record was manually flagged by a researcher.
func (a Annotations) Flagged() bool {
	v, ok := a["flagged"].(bool)
	return ok && v
}

// Label returns the review status label, empty when unset.
func (a Annotations) Label() string {
	v, _ := a["label"].(string)
	return v
}

// Notes returns the free-text research notes, empty when unset.
func (a Annotations) Notes() string {
	v, _ := a["notes"].(string)
	return v
}

// LastUpdatedBy returns the credential of the last researcher to touch the
// annotations, empty when unset.
func (a Annotations) LastUpdatedBy() string {
	v, _ := a["lastUpdatedBy"].(string)
	return v
}
