package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyTextualMimeTypes(t *testing.T) {
	cases := []struct {
		name string
		mime string
	}{
		{"notes.txt", "text/plain"},
		{"page.html", "text/html"},
		{"data.json", "application/json"},
		{"feed.xml", "application/xml"},
		{"config.yaml", "application/x-yaml"},
		{"rows.csv", "application/csv"},
		{"log.ndjson", "application/x-ndjson"},
	}
	for _, tc := range cases {
		require.Equal(t, ModalityText, Classify(tc.name, tc.mime), "%s (%s)", tc.name, tc.mime)
	}
}

func TestClassifyCodeExtensionOverridesMime(t *testing.T) {
	// Transports often report octet-stream for source files; the extension
	// set must win.
	require.Equal(t, ModalityText, Classify("main.go", "application/octet-stream"))
	require.Equal(t, ModalityText, Classify("script.py", ""))
	require.Equal(t, ModalityText, Classify("query.SQL", "application/octet-stream"))
}

func TestClassifyImages(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/heic", "image/heif"} {
		require.Equal(t, ModalityImage, Classify("photo.bin", mime))
	}
}

func TestClassifyDocuments(t *testing.T) {
	require.Equal(t, ModalityDocument, Classify("report.pdf", "application/pdf"))
}

func TestClassifyOpaqueFallback(t *testing.T) {
	require.Equal(t, ModalityOpaque, Classify("archive.zip", "application/zip"))
	require.Equal(t, ModalityOpaque, Classify("track.mp3", "audio/mpeg"))
	require.Equal(t, ModalityOpaque, Classify("", ""))
	require.Equal(t, ModalityOpaque, Classify("noext", "application/octet-stream"))
}

func TestClassifyStripsMimeParameters(t *testing.T) {
	require.Equal(t, ModalityText, Classify("notes", "text/plain; charset=utf-8"))
	require.Equal(t, ModalityImage, Classify("p", "IMAGE/PNG"))
}

func TestClassifyIsIdempotent(t *testing.T) {
	first := Classify("data.parquet", "application/vnd.apache.parquet")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Classify("data.parquet", "application/vnd.apache.parquet"))
	}
}
