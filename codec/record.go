package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Record is a read-only set of named fields decoded from a JSON object.
// Field order follows the server's document order.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from the given field names and values. Values
// are passed through Decode. Names missing from values are stored as nil and
// duplicate names keep their first position.
func NewRecord(keys []string, values map[string]any) *Record {
	rec := &Record{values: make(map[string]any, len(keys))}
	for _, k := range keys {
		rec.set(k, Decode(values[k]))
	}
	return rec
}

func (r *Record) set(key string, value any) {
	if _, seen := r.values[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Fields returns the field names in server order.
func (r *Record) Fields() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Has reports whether the record carries the named field.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Get returns the named field's value.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Value returns the named field's value, or nil when absent.
func (r *Record) Value(name string) any {
	v, _ := r.Get(name)
	return v
}

// String returns the named field rendered as text. Date-times use the
// parameter layout; absent and null fields yield "".
func (r *Record) String(name string) string {
	switch v := r.Value(name).(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return Encode(v)
	default:
		return fmt.Sprint(v)
	}
}

// Time returns the named field when it holds a date-time.
func (r *Record) Time(name string) (time.Time, bool) {
	t, ok := r.Value(name).(time.Time)
	return t, ok
}

// Int returns the named field as an integer when it holds a whole number.
func (r *Record) Int(name string) (int64, bool) {
	switch v := r.Value(name).(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Float returns the named field as a float when it holds a number.
func (r *Record) Float(name string) (float64, bool) {
	switch v := r.Value(name).(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Map returns a copy of the record as a plain map. Nested records become
// maps as well.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = plain(r.values[k])
	}
	return out
}

func plain(v any) any {
	switch val := v.(type) {
	case *Record:
		return val.Map()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// Decode copies the record into out, which must be a pointer to a struct or
// map. Struct fields are matched by their json tag, falling back to a
// case-insensitive match on the field name. Numeric fields accept the
// server's json.Number values.
func (r *Record) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(ParamLayout),
		),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(r.Map()); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// MarshalJSON encodes the record in field order. Date-times are rendered in
// the wire layout so the output can be decoded again.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case time.Time:
		return json.Marshal(val.UTC().Format(WireLayout))
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := marshalValue(item)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v)
	}
}
