package constants

import "strings"

// DocumentType is the source format of an ingested document.
type DocumentType string

const (
	PDF   DocumentType = "pdf"
	DOCX  DocumentType = "docx"
	IMAGE DocumentType = "image"
	TEXT  DocumentType = "text"
)

// AllowedExtensions holds the file extensions the ingestor understands.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the document type for an extension, or "" if unsupported.
func MapExtToFormat(ext string) DocumentType {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "png", "jpg", "jpeg", "tif", "tiff":
		return IMAGE
	case "txt":
		return TEXT
	}
	return ""
}

// ParseDocumentType validates a declared metadata type.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case PDF:
		return PDF, true
	case DOCX:
		return DOCX, true
	case IMAGE:
		return IMAGE, true
	case TEXT:
		return TEXT, true
	}
	return "", false
}
