package codec

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by ParseBytes for malformed documents.
var ErrInvalidJSON = errors.New("invalid JSON document")

// FromJSON converts a parsed JSON value into Go values, decoding wire
// date-time strings along the way.
//
// Objects become *Record (fields in document order), arrays become []any,
// numbers become json.Number so large identifiers survive untouched, and
// null becomes nil.
func FromJSON(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		s := r.String()
		if t, ok := ParseTimestamp(s); ok {
			return t
		}
		return s
	case gjson.JSON:
		if r.IsObject() {
			return recordFromJSON(r)
		}
		if r.IsArray() {
			items := make([]any, 0)
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, FromJSON(item))
				return true
			})
			return items
		}
	}
	return r.Value()
}

// RecordFromJSON converts a JSON object into a Record. Non-object input
// yields an empty record.
func RecordFromJSON(r gjson.Result) *Record {
	if !r.IsObject() {
		return &Record{values: map[string]any{}}
	}
	return recordFromJSON(r)
}

func recordFromJSON(r gjson.Result) *Record {
	rec := &Record{values: make(map[string]any)}
	r.ForEach(func(key, item gjson.Result) bool {
		rec.set(key.String(), FromJSON(item))
		return true
	})
	return rec
}

// ParseBytes parses a JSON document and decodes it with FromJSON.
func ParseBytes(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return FromJSON(gjson.ParseBytes(data)), nil
}
