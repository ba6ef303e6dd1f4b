package dispatch

import "testing"

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "reasoning preamble is discarded",
			in:   "<thinking>...</think>Final answer here",
			want: "Final answer here",
		},
		{
			name: "no marker is identity",
			in:   "## Target Audience\n...",
			want: "## Target Audience\n...",
		},
		{
			name: "no marker preserves surrounding whitespace",
			in:   "  padded  ",
			want: "  padded  ",
		},
		{
			name: "remainder is trimmed",
			in:   "<think>chain of thought</think>\n\n  The answer.\n",
			want: "The answer.",
		},
		{
			name: "splits on the last occurrence",
			in:   "<think>first</think>middle</think>kept",
			want: "kept",
		},
		{
			name: "marker at end yields empty string",
			in:   "<think>all reasoning, no answer</think>",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "opening tag alone is not a marker",
			in:   "<think>unterminated reasoning",
			want: "<think>unterminated reasoning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripReasoning(tt.in); got != tt.want {
				t.Errorf("StripReasoning(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
