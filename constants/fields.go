package constants

// FieldName is the key of one extracted value in a fields result.
type FieldName string

const (
	InvoiceNumber FieldName = "invoice_number"
	Date          FieldName = "date"
	DueDate       FieldName = "due_date"
	TotalAmount   FieldName = "total_amount"
	Subtotal      FieldName = "subtotal"
	Tax           FieldName = "tax"
	CustomerName  FieldName = "customer_name"
	ConsumerNo    FieldName = "consumer_no"
	Vendor        FieldName = "vendor"
	Email         FieldName = "email"
	Phone         FieldName = "phone"
	DetectedType  FieldName = "detected_type"
)

var allFieldNames = []FieldName{
	InvoiceNumber,
	Date,
	DueDate,
	TotalAmount,
	Subtotal,
	Tax,
	CustomerName,
	ConsumerNo,
	Vendor,
	Email,
	Phone,
	DetectedType,
}

// AllFieldNames returns every field name in canonical order.
func AllFieldNames() []FieldName {
	out := make([]FieldName, len(allFieldNames))
	copy(out, allFieldNames)
	return out
}

func IsFieldName(s string) bool {
	for _, f := range allFieldNames {
		if string(f) == s {
			return true
		}
	}
	return false
}
