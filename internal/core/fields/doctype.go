package fields

import (
	"strings"

	"github.com/joseph-ayodele/ocr-fields/constants"
)

type docTypeRule struct {
	label    constants.DocumentType
	keywords []string
}

// documentTypes is evaluated top to bottom; the first label with any keyword wins.
var documentTypes = []docTypeRule{
	{constants.DocInvoice, []string{"invoice", "tax invoice", "proforma"}},
	{constants.DocReceipt, []string{"receipt", "payment received", "thank you for"}},
	{constants.DocPurchaseOrder, []string{"purchase order", "p.o.", "po#"}},
	{constants.DocIDCard, []string{"date of birth", "dob", "licence", "license"}},
	{constants.DocMedical, []string{"patient", "prescription", "doctor", "clinic"}},
	{constants.DocBankStatement, []string{"transaction", "debit", "credit", "account no"}},
	{constants.DocContract, []string{"agreement", "terms and conditions", "hereby"}},
}

// Classify returns the document-type label for text.
func Classify(text string) constants.DocumentType {
	l := lower(text)
	for _, rule := range documentTypes {
		for _, kw := range rule.keywords {
			if strings.Contains(l, kw) {
				return rule.label
			}
		}
	}
	return constants.DocGeneral
}

func documentType(doc *document) (string, bool) {
	return string(Classify(doc.text)), true
}
