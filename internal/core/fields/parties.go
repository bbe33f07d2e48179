package fields

import (
	"regexp"
	"strings"
)

var (
	nameLabelRule    = regexp.MustCompile(`(?im)(?:^|\n)\s*(?:Name|Nome|Nam|Customer\s*Name|Consumer\s*Name|Account\s*Name|Account\s*Holder)\s*[:\-]\s*([A-Za-z][A-Za-z \t.]{2,40})`)
	nameNoiseRule    = regexp.MustCompile(`(?i)\s+(?:Bill|Amount|Due|Date|Payment|Invoice|No|Receipt|Total|Mode|Cash|Rs|Rupees)\b`)
	sameLineNameRule = regexp.MustCompile(`[:\-]\s*([A-Za-z][A-Za-z\s.]{2,40})$`)
	consumerNoRule   = regexp.MustCompile(`(?i)(?:Consumer\s*No|Consumer\s*Number|Account\s*No|Account\s*Number)\s*[:\-]?\s*(\d{5,20})`)
	leadingDigit     = regexp.MustCompile(`^\d`)
)

var (
	customerTriggers = []string{"bill to", "billed to", "customer", "client", "sold to", "ship to", "consumer", "account holder"}
	customerStop     = []string{"invoice", "date", "total", "tax", "amount", "mode"}
	vendorTriggers   = []string{"from:", "vendor", "company", "seller", "supplier"}
	vendorStop       = []string{"invoice", "receipt", "bill", "page"}
)

// customerName tries a labelled "Name: ..." line first; the trigger-line
// search runs only when no label matched.
func customerName(doc *document) (string, bool) {
	if v, ok := labelledName(doc.text); ok {
		return v, true
	}
	return triggeredName(doc.lines)
}

func labelledName(text string) (string, bool) {
	raw, ok := capture(nameLabelRule, text)
	if !ok {
		return "", false
	}
	if loc := nameNoiseRule.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func triggeredName(lines []string) (string, bool) {
	for i, line := range lines {
		if !containsAny(lower(line), customerTriggers) {
			continue
		}
		if v, ok := capture(sameLineNameRule, line); ok {
			return v, true
		}
		for _, c := range lines[i+1 : min(i+4, len(lines))] {
			if leadingDigit.MatchString(c) || runeLen(c) <= 2 {
				continue
			}
			if !containsAny(lower(c), customerStop) {
				return c, true
			}
		}
		break
	}
	return "", false
}

func consumerNumber(doc *document) (string, bool) { return capture(consumerNoRule, doc.text) }

// vendor takes the line after the first vendor trigger, or the first line of
// the document when no trigger exists at all.
func vendor(doc *document) (string, bool) {
	for i, line := range doc.lines {
		if !containsAny(lower(line), vendorTriggers) {
			continue
		}
		for _, c := range doc.lines[i+1 : min(i+3, len(doc.lines))] {
			if runeLen(c) > 2 {
				return c, true
			}
		}
		return "", false
	}
	if len(doc.lines) == 0 {
		return "", false
	}
	first := doc.lines[0]
	if runeLen(first) > 2 && !containsAny(lower(first), vendorStop) {
		return first, true
	}
	return "", false
}
