package constants

import "strings"

// File formats handled by the text source adapter.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedExtensions holds the default allowed file extensions for invoice ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"heic": {},
	"heif": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat classifies a normalized extension as PDF or IMAGE.
// Unknown extensions return "".
func MapExtToFormat(ext string) string {
	switch ext {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "heic", "heif":
		return IMAGE
	default:
		return ""
	}
}

// IsHEICExt reports whether the extension needs HEIC conversion before OCR.
func IsHEICExt(ext string) bool {
	return ext == "heic" || ext == "heif"
}
