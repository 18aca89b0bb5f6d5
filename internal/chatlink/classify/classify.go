// Package classify maps an attachment's file name and mime type onto exactly
// one payload modality. Classification is a total, pure function: it never
// fails and never inspects file content.
package classify

import (
	"path/filepath"
	"strings"
)

// Modality is the category of attached content that drives the payload
// strategy for a provider.
type Modality string

const (
	// ModalityText is decodable text or source code, embedded in the prompt.
	ModalityText Modality = "text"
	// ModalityImage is a raster image a vision model can accept natively.
	ModalityImage Modality = "image"
	// ModalityDocument is a document format (PDF) with native provider support.
	ModalityDocument Modality = "document"
	// ModalityOpaque is anything else; sent base64-encoded under a size ceiling.
	ModalityOpaque Modality = "opaque"
)

// textMimePrefixes match any textual media type family.
var textMimePrefixes = []string{"text/"}

// textMimeTypes are structured-text application types sent as plain text.
var textMimeTypes = map[string]struct{}{
	"application/json":       {},
	"application/xml":        {},
	"application/javascript": {},
	"application/typescript": {},
	"application/x-python":   {},
	"application/x-sh":       {},
	"application/x-yaml":     {},
	"application/toml":       {},
	"application/csv":        {},
	"application/x-ndjson":   {},
}

// codeExtensions are file extensions treated as text regardless of the
// reported mime type (messaging transports often report octet-stream for
// source files).
var codeExtensions = map[string]struct{}{
	"py": {}, "js": {}, "ts": {}, "java": {}, "c": {}, "cpp": {}, "h": {},
	"hpp": {}, "cs": {}, "go": {}, "rb": {}, "rs": {}, "swift": {}, "kt": {},
	"sh": {}, "bash": {}, "zsh": {}, "fish": {}, "yaml": {}, "yml": {},
	"toml": {}, "ini": {}, "cfg": {}, "conf": {}, "md": {}, "rst": {},
	"txt": {}, "log": {}, "csv": {}, "json": {}, "xml": {}, "html": {},
	"css": {}, "sql": {}, "r": {}, "m": {}, "lua": {}, "pl": {}, "php": {},
}

// imageMimeTypes are raster formats accepted natively by vision models.
var imageMimeTypes = map[string]struct{}{
	"image/jpeg": {}, "image/png": {}, "image/gif": {}, "image/webp": {},
	"image/heic": {}, "image/heif": {},
}

// documentMimeTypes are document formats with native provider block support.
var documentMimeTypes = map[string]struct{}{
	"application/pdf": {},
}

// Classify returns the modality for the given file name and mime type.
// Rules are checked in order: text, image, document, opaque.
func Classify(fileName, mimeType string) Modality {
	mime := normalizeMime(mimeType)

	if isTextMime(mime) || isCodeExtension(fileName) {
		return ModalityText
	}
	if _, ok := imageMimeTypes[mime]; ok {
		return ModalityImage
	}
	if _, ok := documentMimeTypes[mime]; ok {
		return ModalityDocument
	}
	return ModalityOpaque
}

func normalizeMime(mimeType string) string {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	// Strip parameters such as "; charset=utf-8".
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}

func isTextMime(mime string) bool {
	if mime == "" {
		return false
	}
	for _, prefix := range textMimePrefixes {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	_, ok := textMimeTypes[mime]
	return ok
}

func isCodeExtension(fileName string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return false
	}
	_, ok := codeExtensions[ext]
	return ok
}
