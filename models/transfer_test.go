package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewRow_DecodeKeepsKeyOrder(t *testing.T) {
	input := `{"zeta":1,"alpha":"x","mid":null}`

	var row PreviewRow
	require.NoError(t, json.Unmarshal([]byte(input), &row))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, row.Columns)
	assert.Equal(t, 1.0, row.Get("zeta"))
	assert.Equal(t, "x", row.Get("alpha"))
	assert.Nil(t, row.Get("mid"))
}

func TestPreviewRow_EncodeUsesColumnOrder(t *testing.T) {
	row := PreviewRow{
		Columns: []string{"b", "a"},
		Values:  map[string]interface{}{"a": 2.0, "b": "one"},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"one","a":2}`, string(data))
}

func TestPreviewRow_RoundTrip(t *testing.T) {
	input := `{"c":3.5,"a":null,"b":"text"}`

	var row PreviewRow
	require.NoError(t, json.Unmarshal([]byte(input), &row))

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Equal(t, []string{"c", "a", "b"}, row.Columns)
}

func TestPreviewRow_RejectsNonObject(t *testing.T) {
	var row PreviewRow
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &row))
}

func TestProcessResponse_DecodePreservesRowOrder(t *testing.T) {
	payload := `{
		"status": "success",
		"processed_filename": "processed_x",
		"preview_data": [{"b":1,"a":2},{"b":3,"a":4}],
		"imputation_flags": {"b":[true,false]},
		"numeric_columns": ["a","b"]
	}`

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	require.Len(t, resp.PreviewData, 2)
	assert.Equal(t, []string{"b", "a"}, resp.PreviewData[0].Columns)
	assert.Equal(t, 3.0, resp.PreviewData[1].Get("b"))
	assert.Equal(t, []bool{true, false}, resp.ImputationFlags["b"])
}
