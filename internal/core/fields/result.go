package fields

import "github.com/joseph-ayodele/ocr-fields/constants"

// Result is the sparse field map produced by Extract. A missing key means the
// field was not found; values are never empty. detected_type is always set.
type Result map[constants.FieldName]string

func (r Result) Get(name constants.FieldName) string { return r[name] }

func (r Result) Has(name constants.FieldName) bool {
	_, ok := r[name]
	return ok
}

// DocumentType returns the classifier label, or the default label if unset.
func (r Result) DocumentType() constants.DocumentType {
	if v, ok := r[constants.DetectedType]; ok {
		return constants.DocumentType(v)
	}
	return constants.DocGeneral
}

// Keys returns the present field names in canonical order.
func (r Result) Keys() []constants.FieldName {
	keys := make([]constants.FieldName, 0, len(r))
	for _, name := range constants.AllFieldNames() {
		if r.Has(name) {
			keys = append(keys, name)
		}
	}
	return keys
}

func (r Result) set(name constants.FieldName, value string) {
	if value == "" {
		return
	}
	r[name] = value
}
