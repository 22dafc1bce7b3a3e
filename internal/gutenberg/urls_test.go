package gutenberg

import (
	"testing"

	"github.com/aizazja028-sketch/BookByte/internal/ingest"
)

func TestResolveTextURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "ebook page",
			raw:  "https://www.gutenberg.org/ebooks/84",
			want: "https://www.gutenberg.org/cache/epub/84/pg84.txt",
		},
		{
			name: "ebook page trailing slash",
			raw:  "https://www.gutenberg.org/ebooks/345/",
			want: "https://www.gutenberg.org/cache/epub/345/pg345.txt",
		},
		{
			name: "bare host",
			raw:  "https://gutenberg.org/ebooks/84",
			want: "https://www.gutenberg.org/cache/epub/84/pg84.txt",
		},
		{
			name: "direct txt passes through",
			raw:  "https://www.gutenberg.org/cache/epub/84/pg84.txt",
			want: "https://www.gutenberg.org/cache/epub/84/pg84.txt",
		},
		{
			name: "files txt passes through",
			raw:  "https://www.gutenberg.org/files/84/84-0.txt",
			want: "https://www.gutenberg.org/files/84/84-0.txt",
		},
		{
			name: "surrounding whitespace",
			raw:  "  https://www.gutenberg.org/ebooks/84  ",
			want: "https://www.gutenberg.org/cache/epub/84/pg84.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTextURL(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveTextURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveTextURLInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"wrong host", "https://example.com/ebooks/84"},
		{"wrong scheme", "ftp://www.gutenberg.org/ebooks/84"},
		{"no scheme", "www.gutenberg.org/ebooks/84"},
		{"non-numeric id", "https://www.gutenberg.org/ebooks/frankenstein"},
		{"unrecognized path", "https://www.gutenberg.org/browse/scores/top"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTextURL(tt.raw)
			if err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
			if kind := ingest.KindOf(err); kind != ingest.KindInvalidURL {
				t.Errorf("expected invalid_url kind, got %s", kind)
			}
		})
	}
}
