package constants

// DocumentType is the label assigned by the document-type classifier.
type DocumentType string

const (
	DocInvoice       DocumentType = "Invoice"
	DocReceipt       DocumentType = "Receipt"
	DocPurchaseOrder DocumentType = "Purchase Order"
	DocIDCard        DocumentType = "ID Card"
	DocMedical       DocumentType = "Medical"
	DocBankStatement DocumentType = "Bank Statement"
	DocContract      DocumentType = "Contract"
	DocGeneral       DocumentType = "General Document" // default when no keyword matches
)

var allDocumentTypes = []DocumentType{
	DocInvoice,
	DocReceipt,
	DocPurchaseOrder,
	DocIDCard,
	DocMedical,
	DocBankStatement,
	DocContract,
	DocGeneral,
}

func DocumentTypesAsStringSlice() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}
