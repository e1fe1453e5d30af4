package inference

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"response": "ok"}`,
			want: `{"response": "ok"}`,
		},
		{
			name: "code fence",
			raw:  "```json\n{\"response\": \"ok\"}\n```",
			want: `{"response": "ok"}`,
		},
		{
			name: "leading prose",
			raw:  "Here is the result:\n{\"response\": \"ok\"}\nHope that helps!",
			want: `{"response": "ok"}`,
		},
		{
			name: "nested braces",
			raw:  `{"updatedConfig": {"technicianRate": 85}}`,
			want: `{"updatedConfig": {"technicianRate": 85}}`,
		},
		{
			name: "braces inside string values",
			raw:  `{"response": "use {curly} notation"}`,
			want: `{"response": "use {curly} notation"}`,
		},
		{
			name: "escaped quote in string",
			raw:  `{"response": "she said \"no\""}`,
			want: `{"response": "she said \"no\""}`,
		},
		{
			name: "no object",
			raw:  "I cannot answer that.",
			want: "",
		},
		{
			name: "unbalanced",
			raw:  `{"response": "truncated`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONBlock(tt.raw))
		})
	}
}

func TestExtractJSONBlock_StripsComments(t *testing.T) {
	raw := "{\n\"technicianRate\": 85 // per the user request\n}"
	got := ExtractJSONBlock(raw)

	var decoded map[string]float64
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, 85.0, decoded["technicianRate"])
}

func TestExtractJSONBlock_CommentInsideStringPreserved(t *testing.T) {
	raw := `{"response": "see https://example.com/docs"}`
	got := ExtractJSONBlock(raw)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "see https://example.com/docs", decoded["response"])
}
