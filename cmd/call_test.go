package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/s0up4200/millennium/codec"
	"github.com/s0up4200/millennium/millennium"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{
		"ativo=true",
		"top=10",
		"preco=9.5",
		"codigo=007",
		"desde=2024-01-02T03:04:05.000Z",
		"nome=Loja=Centro",
		"vazio=",
	})
	require.NoError(t, err)

	assert.Equal(t, true, params["ativo"])
	assert.Equal(t, int64(10), params["top"])
	assert.Equal(t, 9.5, params["preco"])
	assert.Equal(t, "007", params["codigo"])
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), params["desde"])
	assert.Equal(t, "Loja=Centro", params["nome"])
	assert.Equal(t, "", params["vazio"])

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestMergeJSONParams(t *testing.T) {
	params := millennium.Params{"a": "1"}
	require.NoError(t, mergeJSONParams(params, `{"b": 2, "quando": "2024-01-02T03:04:05.000Z"}`))

	assert.Equal(t, "1", params["a"])
	assert.Equal(t, float64(2), params["b"])
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), params["quando"])

	assert.Error(t, mergeJSONParams(params, `[1]`))
}

func TestPrintRecords(t *testing.T) {
	records := []*millennium.Record{
		codec.RecordFromJSON(gjson.Parse(`{"id": 1, "Name": "A"}`)),
		codec.RecordFromJSON(gjson.Parse(`{"id": 2, "Name": "B", "extra": {"x": 1}}`)),
	}
	count := int64(2)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, "table", &count, records))

		out := buf.String()
		assert.Contains(t, out, "Total: 2")
		assert.Contains(t, out, "id  Name  extra")
		assert.Contains(t, out, `2   B     {"x":1}`)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, "json", &count, records))
		assert.JSONEq(t, `{"count":2,"records":[{"id":1,"Name":"A"},{"id":2,"Name":"B","extra":{"x":1}}]}`, buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, "table", nil, nil))
		assert.Equal(t, "No records returned.\n", buf.String())
	})
}

func TestPrintRecord(t *testing.T) {
	rec := codec.RecordFromJSON(gjson.Parse(`{"pedido": 991, "emissao": "2024-02-03T04:05:06.000Z"}`))

	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, "table", rec))
	assert.Equal(t, "pedido:   991\nemissao:  2024-02-03 04:05:06\n", buf.String())
}

func TestCompileFilterPresets(t *testing.T) {
	invalid := compileFilterPresets(map[string]string{
		"ativos":   "ativo == true",
		"quebrado": "ativo ==",
		"vazio":    "",
	})
	assert.Equal(t, []string{"quebrado", "vazio"}, invalid)

	first, err := filterCompiler.Compile("ativo == true")
	require.NoError(t, err)
	second, err := filterCompiler.Compile("ativo == true")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
