package fields

import "regexp"

const monthName = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?`

// dateRules: D/M/Y, Y/M/D, "D Month Year", "Month D, Year".
var dateRules = cascade{
	regexp.MustCompile(`(?i)\b(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}\s+` + monthName + `\s+\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(` + monthName + `\s+\d{1,2},?\s+\d{4})\b`),
}

var dateContext = []string{"date", "dated", "issued", "invoice date", "bill date"}

var dueDateRule = regexp.MustCompile(`(?i)(?:DUE\s+DATE|PAYMENT\s+DUE|PAY\s+BY)[^\d\n]*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`)

// issueDate looks around the first line mentioning a date first, then falls
// back to the whole text. Only the first context line is considered.
func issueDate(doc *document) (string, bool) {
	for i, line := range doc.lines {
		if !containsAny(lower(line), dateContext) {
			continue
		}
		if v, ok := dateRules.first(doc.window(i, 1, 2)); ok {
			return v, true
		}
		break
	}
	return dateRules.first(doc.text)
}

func dueDate(doc *document) (string, bool) {
	return capture(dueDateRule, doc.text)
}
