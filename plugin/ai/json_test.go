package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"topics": ["a"]}`,
			want:    `{"topics": ["a"]}`,
		},
		{
			name:    "markdown fenced",
			content: "```json\n{\"topics\": [\"a\"]}\n```",
			want:    `{"topics": ["a"]}`,
		},
		{
			name:    "surrounding prose",
			content: `Here is the analysis: {"summary": "ok"} Hope that helps!`,
			want:    `{"summary": "ok"}`,
		},
		{
			name:    "nested objects span to last brace",
			content: `{"a": {"b": 1}}`,
			want:    `{"a": {"b": 1}}`,
		},
		{
			name:    "no object",
			content: "I cannot analyze this book.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
