package fields

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SplitLines breaks OCR text into trimmed, non-empty lines, preserving order.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// document is the read-only view shared by every field extractor.
type document struct {
	text  string
	lines []string
}

func newDocument(text string) *document {
	return &document{text: text, lines: SplitLines(text)}
}

// window returns lines[i-before .. i+after] joined by a space, clamped to the slice bounds.
func (d *document) window(i, before, after int) string {
	lo := max(0, i-before)
	hi := min(len(d.lines), i+after+1)
	return strings.Join(d.lines[lo:hi], " ")
}

// lower uses a fresh Caser per call: casers carry state and are not safe to share.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
