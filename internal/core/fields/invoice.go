package fields

import "regexp"

var invoiceNumberRules = cascade{
	// keyword then either an explicit "No:" style label or any non-digit filler on the
	// line; at one position the explicit label is preferred, so "Invoice Number: INV-7"
	// keeps its prefix, and the earliest keyword in the text still wins.
	regexp.MustCompile(`(?i)(?:INVOICE|INV|RECEIPT|BILL|ORDER)` +
		`(?:[ \t]*(?:(?:NUMBER|NUM|NO)\.?)?[ \t]*[#№]?[ \t]*:[ \t]*|[^\d#\n]*[#№]?\s*:?\s*)` +
		`([A-Z0-9][-A-Z0-9/]{2,20})`),
	regexp.MustCompile(`(?i)\b(INV[-/]?\d{3,12})\b`),
	regexp.MustCompile(`(?i)\b(BILL[-/]?\d{3,12})\b`),
	regexp.MustCompile(`(?i)(?:NO|NUMBER|#)[.:\s]*([A-Z0-9\-/]{4,20})`),
}

var receiptNumberRule = regexp.MustCompile(`(?i)(?:Receipt\s*No|Receipt\s*Number)\s*[:\-]?\s*([A-Z0-9][\w\-]{3,20})`)

func invoiceNumber(doc *document) (string, bool) {
	if v, ok := invoiceNumberRules.first(doc.text); ok {
		return v, true
	}
	return capture(receiptNumberRule, doc.text)
}
