package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// WireLayout is the layout the server uses for date-time values.
	WireLayout = "2006-01-02T15:04:05.000Z"
	// ParamLayout is the layout the server accepts for date-time parameters.
	ParamLayout = "2006-01-02 15:04:05"
)

var timestampPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}\.[0-9]{3}Z$`)

// IsTimestamp reports whether s has the exact wire date-time shape.
func IsTimestamp(s string) bool {
	return timestampPattern.MatchString(s)
}

// ParseTimestamp converts a wire date-time string into a UTC time truncated to
// the second. It returns false when s does not match the wire pattern or does
// not name a valid calendar instant.
func ParseTimestamp(s string) (time.Time, bool) {
	if !IsTimestamp(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s[:19], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Decode replaces every wire date-time string in v with a time.Time.
//
// Maps are updated in place and only at the keys whose value changed; slices
// likewise. Strings are checked directly. Records built by FromJSON or
// NewRecord are already decoded and are returned as is. Any other value is
// returned unchanged.
func Decode(v any) any {
	out, _ := decode(v)
	return out
}

func decode(v any) (any, bool) {
	switch val := v.(type) {
	case string:
		if t, ok := ParseTimestamp(val); ok {
			return t, true
		}
		return val, false
	case map[string]any:
		changed := false
		for k, item := range val {
			if conv, ok := decode(item); ok {
				val[k] = conv
				changed = true
			}
		}
		return val, changed
	case []any:
		changed := false
		for i, item := range val {
			if conv, ok := decode(item); ok {
				val[i] = conv
				changed = true
			}
		}
		return val, changed
	default:
		return v, false
	}
}

// Encode renders t in the parameter layout the server accepts. The time is
// formatted as is, without zone conversion and without fractional seconds.
func Encode(t time.Time) string {
	return t.Format(ParamLayout)
}

// EncodeValue encodes time.Time and *time.Time values with Encode. Any other
// value is passed through untouched.
func EncodeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return Encode(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return Encode(*val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = EncodeValue(item)
		}
		return out
	case map[string]any:
		return EncodeParams(val)
	default:
		return v
	}
}

// EncodeParams returns a copy of params with every date-time value encoded.
// The result is never nil, so it always marshals to a JSON object.
func EncodeParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = EncodeValue(v)
	}
	return out
}

// QueryValues renders v as one or more query string values.
func QueryValues(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, FormatQueryValue(item))
		}
		return out
	default:
		return []string{FormatQueryValue(v)}
	}
}

// FormatQueryValue renders a single scalar as a query string value.
func FormatQueryValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case time.Time:
		return Encode(val)
	case *time.Time:
		if val == nil {
			return ""
		}
		return Encode(*val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
