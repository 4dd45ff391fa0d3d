package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "wire timestamp",
			input: "2024-03-01T10:20:30.000Z",
			want:  time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "milliseconds are dropped",
			input: "2024-03-01T10:20:30.123Z",
			want:  time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
			ok:    true,
		},
		{name: "missing milliseconds", input: "2024-03-01T10:20:30Z"},
		{name: "missing zone marker", input: "2024-03-01T10:20:30.000"},
		{name: "space separator", input: "2024-03-01 10:20:30.000Z"},
		{name: "trailing text", input: "2024-03-01T10:20:30.000Z "},
		{name: "date only", input: "2024-03-01"},
		{name: "invalid month", input: "2024-13-01T10:20:30.000Z"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestEncode(t *testing.T) {
	ts, ok := ParseTimestamp("1999-12-31T23:59:58.000Z")
	require.True(t, ok)
	assert.Equal(t, "1999-12-31 23:59:58", Encode(ts))

	withNanos := time.Date(2024, 1, 2, 3, 4, 5, 999, time.UTC)
	assert.Equal(t, "2024-01-02 03:04:05", Encode(withNanos))
}

func TestDecode(t *testing.T) {
	t.Run("top level string", func(t *testing.T) {
		got := Decode("2024-03-01T10:20:30.000Z")
		assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), got)
		assert.Equal(t, "not a date", Decode("not a date"))
	})

	t.Run("scalars pass through", func(t *testing.T) {
		assert.Equal(t, 42, Decode(42))
		assert.Equal(t, true, Decode(true))
		assert.Nil(t, Decode(nil))
	})

	t.Run("nested structures", func(t *testing.T) {
		input := map[string]any{
			"created": "2024-03-01T10:20:30.000Z",
			"name":    "2024-03-01",
			"total":   12.5,
			"items": []any{
				"2020-01-01T00:00:00.000Z",
				map[string]any{
					"shipped": "2021-06-15T08:00:00.000Z",
					"tags":    []any{"a", "2022-02-02T02:02:02.000Z"},
				},
				7,
			},
		}

		got := Decode(input).(map[string]any)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), got["created"])
		assert.Equal(t, "2024-03-01", got["name"])
		assert.Equal(t, 12.5, got["total"])

		items := got["items"].([]any)
		require.Len(t, items, 3)
		assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), items[0])
		nested := items[1].(map[string]any)
		assert.Equal(t, time.Date(2021, 6, 15, 8, 0, 0, 0, time.UTC), nested["shipped"])
		assert.Equal(t, []any{"a", time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)}, nested["tags"])
		assert.Equal(t, 7, items[2])
	})

	t.Run("untouched input is not mutated", func(t *testing.T) {
		input := map[string]any{"a": "x", "b": []any{1, "y"}}
		got := Decode(input)
		assert.Equal(t, map[string]any{"a": "x", "b": []any{1, "y"}}, got)
	})
}

func TestEncodeParams(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	params := map[string]any{
		"since": ts,
		"until": &ts,
		"code":  "A1",
		"list":  []any{ts, 3},
	}

	got := EncodeParams(params)
	assert.Equal(t, "2024-05-06 07:08:09", got["since"])
	assert.Equal(t, "2024-05-06 07:08:09", got["until"])
	assert.Equal(t, "A1", got["code"])
	assert.Equal(t, []any{"2024-05-06 07:08:09", 3}, got["list"])
	assert.Equal(t, ts, params["since"], "input must not be modified")

	empty, err := json.Marshal(EncodeParams(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(empty))
}

func TestFormatQueryValue(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"text", "text"},
		{true, "true"},
		{10, "10"},
		{int64(-3), "-3"},
		{2.5, "2.5"},
		{json.Number("12345678901234567890"), "12345678901234567890"},
		{time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), "2024-05-06 07:08:09"},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatQueryValue(tt.input))
	}

	assert.Equal(t, []string{"1", "b"}, QueryValues([]any{1, "b"}))
	assert.Equal(t, []string{"x"}, QueryValues("x"))
}
