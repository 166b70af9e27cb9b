package models

import (
	"bytes"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DefaultSubscoreMax is the implied maximum when a subscore does not carry
// its own.
const DefaultSubscoreMax = 12

// SubscoreValue models the two shapes a stored subscore takes: a bare number
// or a {score, max} document. Exactly one variant is populated; Resolve
// collapses both into (score, max) so aggregation code never type-switches.
type SubscoreValue struct {
	Number float64
	Scored *Scored
}

// Scored is the object variant of a subscore.
type Scored struct {
	Score float64 `json:"score,omitempty" bson:"score,omitempty"`
	Max   float64 `json:"max,omitempty" bson:"max,omitempty"`
}

// Resolve returns the effective (score, max) pair. A bare number implies the
// default max; an object defaults missing score to 0 and missing max to the
// default.
func (v SubscoreValue) Resolve() (score, max float64) {
	if v.Scored != nil {
		score = v.Scored.Score
		max = v.Scored.Max
		if max == 0 {
			max = DefaultSubscoreMax
		}
		return score, max
	}
	return v.Number, DefaultSubscoreMax
}

// MarshalJSON writes the variant back in its original shape.
func (v SubscoreValue) MarshalJSON() ([]byte, error) {
	if v.Scored != nil {
		return json.Marshal(v.Scored)
	}
	return json.Marshal(v.Number)
}

// UnmarshalJSON accepts a number or a {score, max} object. Any other scalar
// degrades to zero rather than failing the whole record.
func (v *SubscoreValue) UnmarshalJSON(data []byte) error {
	d := bytes.TrimSpace(data)
	if len(d) > 0 && d[0] == '{' {
		var s Scored
		if err := json.Unmarshal(d, &s); err != nil {
			return err
		}
		v.Scored = &s
		v.Number = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(d, &n); err != nil {
		v.Number = 0
		v.Scored = nil
		return nil
	}
	v.Number = n
	v.Scored = nil
	return nil
}

// MarshalBSONValue mirrors the JSON encoding for the Mongo store.
func (v SubscoreValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if v.Scored != nil {
		return bson.MarshalValue(v.Scored)
	}
	return bson.MarshalValue(v.Number)
}

// UnmarshalBSONValue accepts numeric BSON types or an embedded document.
func (v *SubscoreValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeEmbeddedDocument:
		var s Scored
		if err := raw.Unmarshal(&s); err != nil {
			return err
		}
		v.Scored = &s
		v.Number = 0
		return nil
	case bson.TypeDouble, bson.TypeInt32, bson.TypeInt64:
		var n float64
		if err := raw.Unmarshal(&n); err != nil {
			return err
		}
		v.Number = n
		v.Scored = nil
		return nil
	default:
		// Unexpected shape degrades to zero, matching the JSON path.
		v.Number = 0
		v.Scored = nil
		return nil
	}
}
