package fields

import (
	"regexp"
	"strings"
)

var (
	emailRule  = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRule  = regexp.MustCompile(`(?i)(?:Tel|Phone|Ph|Mobile|Contact)?[:\s]*(\+?[\d\s\-().]{7,16}\d)`)
	whitespace = regexp.MustCompile(`\s+`)
	nonDigit   = regexp.MustCompile(`\D`)
)

const minPhoneDigits = 7

func email(doc *document) (string, bool) {
	v := emailRule.FindString(doc.text)
	return v, v != ""
}

// phone only inspects the first candidate run; a short one is not retried further on.
func phone(doc *document) (string, bool) {
	m := phoneRule.FindStringSubmatch(doc.text)
	if m == nil {
		return "", false
	}
	p := strings.TrimSpace(whitespace.ReplaceAllString(m[1], " "))
	if len(nonDigit.ReplaceAllString(p, "")) < minPhoneDigits {
		return "", false
	}
	return p, true
}
