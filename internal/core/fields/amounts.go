package fields

import (
	"regexp"
	"slices"
)

// amount is either comma/space grouped thousands or a plain digit run.
const amount = `(?:\d{1,3}(?:[,\s]\d{3})+|\d+)`

var totalRules = cascade{
	regexp.MustCompile(`(?i)(?:GRAND\s+TOTAL|TOTAL\s+AMOUNT|AMOUNT\s+DUE|AMOUNT\s+PAYABLE|NET\s+AMOUNT|BALANCE\s+DUE|TOTAL)[^\d$£€₹\n]{0,20}[$£€₹]?\s*(` + amount + `(?:\.\d{1,2})?)`),
	regexp.MustCompile(`[$£€₹]\s*(` + amount + `\.\d{2})\s*$`),
}

// subtotal and tax values are at least two characters, so a lone digit is not a value.
var (
	currencySymbol = regexp.MustCompile(`[$£€₹]`)
	subtotalRule   = regexp.MustCompile(`(?i)SUB[\s\-]?TOTAL[^\d$£€₹\n]*[$£€₹]?\s*(\d[\d,.]+)`)
	taxRule        = regexp.MustCompile(`(?i)(?:TAX|VAT|GST|HST)[^\d$£€₹\n%]*(?:\d+(?:\.\d+)?\s*%)?[^\d$£€₹\n]*[$£€₹]?\s*(\d[\d,.]+)`)
)

// totalAmount scans from the bottom of the document up. The currency symbol is
// taken from anywhere on the matching line, not only next to the digits.
func totalAmount(doc *document) (string, bool) {
	for _, line := range slices.Backward(doc.lines) {
		v, ok := totalRules.first(line)
		if !ok {
			continue
		}
		return currencySymbol.FindString(line) + v, true
	}
	return "", false
}

func subtotal(doc *document) (string, bool) { return capture(subtotalRule, doc.text) }

func tax(doc *document) (string, bool) { return capture(taxRule, doc.text) }
