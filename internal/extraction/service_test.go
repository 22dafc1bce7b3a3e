package extraction

import (
	"strings"
	"testing"
)

func TestParseParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"paragraphs":["one","two"]}`,
			want:    []string{"one", "two"},
		},
		{
			name:    "empty array",
			content: `{"paragraphs":[]}`,
			want:    []string{},
		},
		{
			name:    "code fence",
			content: "```json\n{\"paragraphs\":[\"fenced\"]}\n```",
			want:    []string{"fenced"},
		},
		{
			name:    "code fence without language",
			content: "```\n{\"paragraphs\":[\"plain fence\"]}\n```",
			want:    []string{"plain fence"},
		},
		{
			name:    "surrounding commentary",
			content: `Here is the result you asked for: {"paragraphs":["salvaged"]} hope that helps!`,
			want:    []string{"salvaged"},
		},
		{
			name:    "truncated response with no closing brace",
			content: `{"paragraphs":["complete","truncated`,
			want:    nil,
		},
		{
			name:    "object embedded in a larger answer",
			content: `Result: {"status": "done", "paragraphs": ["one"]}`,
			want:    []string{"one"},
		},
		{
			name:    "no json at all",
			content: `the text contains no extractable paragraphs`,
			want:    nil,
		},
		{
			name:    "json without paragraphs key",
			content: `{"result":["one"]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParagraphs(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := buildExtractionPrompt("the text", 2, 5)

	for _, want := range []string{"Chunk 2/5", "the text", "paragraphs"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}
