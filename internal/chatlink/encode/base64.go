// Package encode provides base64 and data-URI helpers for attachment
// payloads, including the encoded-size ceiling math used to refuse oversized
// binaries before any network call.
package encode

import (
	"encoding/base64"
	"fmt"
)

// ToBase64 encodes raw bytes with standard base64.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes a standard base64 string.
func FromBase64(value string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(value)
}

// EncodedLen returns the base64-encoded length for a raw byte count without
// performing the encoding.
func EncodedLen(rawLen int) int {
	return base64.StdEncoding.EncodedLen(rawLen)
}

// FitsCeiling reports whether data would encode within maxEncodedChars.
// A non-positive ceiling disables the check.
func FitsCeiling(data []byte, maxEncodedChars int) bool {
	if maxEncodedChars <= 0 {
		return true
	}
	return EncodedLen(len(data)) <= maxEncodedChars
}

// DataURI renders bytes as an RFC 2397 data URI for the given mime type.
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, ToBase64(data))
}
