package constants

import "strings"

// Source formats recognised by the OCR stage.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	TXT   = "TXT"
)

// FileTypes holds the allowed values for the source_type column of an extraction.
var FileTypes = []string{PDF, IMAGE, TXT}

// AllowedExtensions holds the file extensions the batch command picks up.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"tiff": {},
	"tif":  {},
	"webp": {},
	"pdf":  {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without dot) is one we process.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat maps an extension to PDF, IMAGE or TXT. Unknown extensions map to "".
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	case "png", "jpg", "jpeg", "gif", "bmp", "tiff", "tif", "webp":
		return IMAGE
	default:
		return ""
	}
}
