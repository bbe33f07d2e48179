package constants

import "strings"

// Mode selects the preprocessing profile and tesseract page segmentation.
type Mode string

const (
	ModeAuto        Mode = "auto"
	ModeReceipt     Mode = "receipt"
	ModeInvoice     Mode = "invoice"
	ModeHandwritten Mode = "handwritten"
)

var allModes = []Mode{ModeAuto, ModeReceipt, ModeInvoice, ModeHandwritten}

func ModesAsStringSlice() []string {
	result := make([]string, len(allModes))
	for i, m := range allModes {
		result[i] = string(m)
	}
	return result
}

// ParseMode canonicalizes a caller-supplied mode label.
// Unknown or empty labels fall back to ModeAuto and report false.
func ParseMode(input string) (Mode, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return ModeAuto, false
	}
	for _, m := range allModes {
		if normalized == string(m) {
			return m, true
		}
	}
	return ModeAuto, false
}
