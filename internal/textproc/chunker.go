// Package textproc splits cleaned book text into bounded-size segments for
// the extraction service and strips source boilerplate.
package textproc

import (
	"fmt"
	"strings"
)

// Boilerplate markers surrounding the book body in Project Gutenberg texts.
const (
	startMarker = "*** START OF"
	endMarker   = "*** END OF"
)

// Chunk slices text into contiguous segments of at most maxSize characters,
// produced left to right with no overlap and no gaps. Every segment except
// the last holds exactly maxSize characters; joining all segments in order
// reconstructs the input exactly. Empty text yields zero segments.
func Chunk(text string, maxSize int) ([]string, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxSize)
	}

	runes := []rune(text)

	var chunks []string
	for start := 0; start < len(runes); start += maxSize {
		end := start + maxSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks, nil
}

// StripBoilerplate removes the header and footer surrounding the book body
// when both the start and end markers are present. The text is returned
// unmodified when either marker is missing, so non-Gutenberg texts pass
// through untouched.
func StripBoilerplate(text string) string {
	start := strings.Index(text, startMarker)
	end := strings.LastIndex(text, endMarker)
	if start < 0 || end < 0 || end <= start {
		return text
	}

	// The body begins on the line after the start marker.
	newline := strings.Index(text[start:], "\n")
	if newline < 0 {
		return text
	}
	bodyStart := start + newline + 1
	if bodyStart > end {
		return text
	}

	return text[bodyStart:end]
}
