package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts used by the formatter. Day-of-month is never zero padded.
const (
	isoDateLayout  = "2006-01-02"
	longDateLayout = "Monday, January 2, 2006"
)

// ContentLayout holds the fixed parts of a formatted target document.
type ContentLayout struct {
	// TitlePrefix precedes the date in every document title.
	TitlePrefix string

	// SummaryLabel precedes the parenthesised date in the summary.
	SummaryLabel string
}

// DefaultContentLayout returns the layout used for standup notes.
func DefaultContentLayout() ContentLayout {
	return ContentLayout{
		TitlePrefix:  "Daily Standup",
		SummaryLabel: "Standup notes from Google Meet",
	}
}

// FormattedContent is the output of the content formatter.
type FormattedContent struct {
	Title   string
	Summary string
	Body    string
}

// FormatContent derives the target title, summary and page body for a source
// document. It is pure: the same inputs always yield byte-identical output.
// The title rule is what later runs use to find a date's document, so
// changing it breaks lookup for everything already migrated.
func FormatContent(layout ContentLayout, name string, createdAt time.Time, body string) FormattedContent {
	day := createdAt.UTC()
	isoDate := day.Format(isoDateLayout)
	title := Title(layout, day)

	lines := []string{
		"# " + title,
		"",
		"**Source:** " + name,
		"**Date:** " + day.Format(longDateLayout),
		"",
		"---",
		"",
		body,
	}

	return FormattedContent{
		Title:   title,
		Summary: fmt.Sprintf("%s (%s)", layout.SummaryLabel, isoDate),
		Body:    strings.Join(lines, "\n"),
	}
}

// Title returns the document title for a creation time.
func Title(layout ContentLayout, createdAt time.Time) string {
	return fmt.Sprintf("%s — %s", layout.TitlePrefix, DateKey(createdAt))
}

// DateKey returns the UTC calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}

var datePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

// ExtractDate recovers the YYYY-MM-DD date embedded in a document title.
// Returns false when the title carries no valid calendar date.
func ExtractDate(title string) (string, bool) {
	for _, match := range datePattern.FindAllStringSubmatch(title, -1) {
		if _, err := time.Parse(isoDateLayout, match[1]); err == nil {
			return match[1], true
		}
	}
	return "", false
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	isoDateLayout,
}

// ParseTimestamp parses an ISO-8601 timestamp as returned by the source store.
// Timestamps without an offset are taken to be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrInvalidInput, s)
}
