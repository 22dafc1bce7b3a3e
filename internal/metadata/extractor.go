// Package metadata parses bibliographic fields out of the unstructured
// header that precedes a plain-text book body.
package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// headerMarker terminates the bibliographic header. Field patterns are only
// applied to the text before it; matching over the full body would risk
// false hits on lines of the book itself.
const headerMarker = "*** START OF"

var (
	titleRe    = fieldPattern("Title")
	authorRe   = fieldPattern("Author")
	releaseRe  = fieldPattern("Release date")
	languageRe = fieldPattern("Language")

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// fieldPattern builds a line-anchored matcher for "Field: value" that also
// captures indented continuation lines when the value wraps.
func fieldPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^` + field + `:[ \t]*(\S[^\r\n]*(?:\r?\n[ \t]+\S[^\r\n]*)*)`)
}

// Extract parses bibliographic fields from a raw book text. It returns nil
// when the header-termination marker is absent; a field missing inside an
// otherwise valid header resolves to its Unknown placeholder instead.
func Extract(rawText string) *models.BookMetadata {
	idx := strings.Index(rawText, headerMarker)
	if idx < 0 {
		return nil
	}

	header := rawText[:idx]

	return &models.BookMetadata{
		Title:       fieldValue(titleRe, header, models.UnknownTitle),
		Author:      fieldValue(authorRe, header, models.UnknownAuthor),
		ReleaseDate: fieldValue(releaseRe, header, models.UnknownReleaseDate),
		Language:    fieldValue(languageRe, header, models.UnknownLanguage),
	}
}

func fieldValue(re *regexp.Regexp, header, fallback string) string {
	match := re.FindStringSubmatch(header)
	if match == nil {
		return fallback
	}
	return collapseWhitespace(match[1])
}

// collapseWhitespace folds continuation-line breaks and runs of internal
// whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// DefaultPublishedDate is persisted when a release date cannot be parsed.
// An unparseable date never fails the book.
const DefaultPublishedDate = "1970-01-01"

var releaseDateRe = regexp.MustCompile(`(?i)([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})`)

var monthNumbers = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

// NormalizeReleaseDate maps a free-text release date such as
// "January 1, 1818" to zero-padded YYYY-MM-DD form. Anything that does not
// match the "Month Day, Year" shape falls back to DefaultPublishedDate.
func NormalizeReleaseDate(raw string) string {
	match := releaseDateRe.FindStringSubmatch(raw)
	if match == nil {
		return DefaultPublishedDate
	}

	month, ok := monthNumbers[strings.ToLower(match[1])]
	if !ok {
		return DefaultPublishedDate
	}

	day, err := strconv.Atoi(match[2])
	if err != nil || day < 1 || day > 31 {
		return DefaultPublishedDate
	}

	return fmt.Sprintf("%s-%02d-%02d", match[3], month, day)
}
