package fields

import (
	"regexp"
	"strings"
)

// cascade is an ordered list of rules; the first rule that matches wins and
// later rules are never evaluated. Every rule captures its value in group 1.
type cascade []*regexp.Regexp

func (c cascade) first(s string) (string, bool) {
	for _, re := range c {
		if m := re.FindStringSubmatch(s); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v, true
			}
			return "", false
		}
	}
	return "", false
}

// capture returns group 1 of a single rule.
func capture(re *regexp.Regexp, s string) (string, bool) {
	return cascade{re}.first(s)
}
