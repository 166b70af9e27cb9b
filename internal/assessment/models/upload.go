package models

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	dErrors "signalviz/pkg/domain-errors"
)

// uploadWrapper is the {"assessments": [...]} envelope some exports use.
type uploadWrapper struct {
	Assessments json.RawMessage `json:"assessments"`
}

// ParseUploadPayload normalizes the three accepted upload shapes into a
// record slice: a JSON array, an {"assessments": [...]} wrapper, or a single
// record object (wrapped into a singleton). Anything else is a bad request.
func ParseUploadPayload(data []byte) ([]AssessmentRecord, error) {
	d := bytes.TrimSpace(data)
	if len(d) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "empty upload payload")
	}

	switch d[0] {
	case '[':
		var records []AssessmentRecord
		if err := json.Unmarshal(d, &records); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid data format, expected an array of records", err)
		}
		return records, nil
	case '{':
		var wrapper uploadWrapper
		if err := json.Unmarshal(d, &wrapper); err == nil && len(wrapper.Assessments) > 0 {
			var records []AssessmentRecord
			if err := json.Unmarshal(wrapper.Assessments, &records); err != nil {
				return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid assessments wrapper, expected an array of records", err)
			}
			return records, nil
		}
		var single AssessmentRecord
		if err := json.Unmarshal(d, &single); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid record object", err)
		}
		return []AssessmentRecord{single}, nil
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid data format, expected an array or object")
	}
}

// EnsureIDs assigns a generated ID to any record missing one and returns the
// slice for chaining.
func EnsureIDs(records []AssessmentRecord) []AssessmentRecord {
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}
	return records
}
