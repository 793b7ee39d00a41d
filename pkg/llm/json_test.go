package llm

import "testing"

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"title":"test"}`,
			want:  `{"title":"test"}`,
		},
		{
			name:  "strips json fenced block",
			input: "```json\n{\"title\":\"test\"}\n```",
			want:  `{"title":"test"}`,
		},
		{
			name:  "strips plain fenced block",
			input: "```\n{\"title\":\"test\"}\n```",
			want:  `{"title":"test"}`,
		},
		{
			name:  "trims surrounding prose",
			input: "Here is the JSON you asked for:\n{\"title\":\"test\"}\nLet me know!",
			want:  `{"title":"test"}`,
		},
		{
			name:  "trims surrounding whitespace",
			input: "  {\"title\":\"test\"}  ",
			want:  `{"title":"test"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
