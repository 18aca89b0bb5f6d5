package imaging

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDimensionsPNG(t *testing.T) {
	require.Equal(t, "64x48", Dimensions(pngBytes(t, 64, 48)))
}

func TestDimensionsUnrecognizedData(t *testing.T) {
	require.Equal(t, "", Dimensions([]byte("not an image")))
	require.Equal(t, "", Dimensions(nil))
}

func TestDimensionsTruncatedHeader(t *testing.T) {
	data := pngBytes(t, 10, 10)
	require.Equal(t, "", Dimensions(data[:4]))
}
