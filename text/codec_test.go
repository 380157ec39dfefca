package text

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRangeJSON(t *testing.T) {
	data, err := json.Marshal(FromTo(3, 7))
	require.NoError(t, err)
	assert.JSONEq(t, `[3, 7]`, string(data))

	var r Range
	require.NoError(t, json.Unmarshal([]byte(`[0, 6]`), &r))
	assert.Equal(t, FromTo(0, 6), r)
}

func TestRangeJSONInsideStruct(t *testing.T) {
	type span struct {
		Range Range `json:"range"`
	}
	data, err := json.Marshal(span{Range: FromLen(2, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"range": [2, 3]}`, string(data))
}

func TestRangeJSONRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"inverted", `[5, 2]`, "decode text range: start 5 is after end 2"},
		{"short", `[1]`, "decode text range: want 2 offsets, got 1"},
		{"long", `[1, 2, 3]`, "decode text range: want 2 offsets, got 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Range
			err := json.Unmarshal([]byte(tt.input), &r)
			require.Error(t, err)
			assert.EqualError(t, err, tt.want)
		})
	}

	var r Range
	assert.Error(t, json.Unmarshal([]byte(`"0-6"`), &r))
}

func TestRangeYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Range{"range": FromTo(1, 4)})
	require.NoError(t, err)
	assert.Equal(t, "range: [1, 4]\n", string(data))

	var decoded map[string]Range
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, FromTo(1, 4), decoded["range"])

	var r Range
	assert.Error(t, yaml.Unmarshal([]byte("[9, 1]"), &r))
}
