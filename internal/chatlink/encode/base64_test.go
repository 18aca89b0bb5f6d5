package encode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x10, 0x20}
	decoded, err := FromBase64(ToBase64(data))
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestFromBase64Invalid(t *testing.T) {
	_, err := FromBase64("not base64!!")
	require.Error(t, err)
}

func TestEncodedLenMatchesActualEncoding(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 100, 3001} {
		data := make([]byte, n)
		require.Equal(t, len(ToBase64(data)), EncodedLen(n), "raw length %d", n)
	}
}

func TestFitsCeiling(t *testing.T) {
	// 75 raw bytes encode to exactly 100 chars.
	data := make([]byte, 75)
	require.True(t, FitsCeiling(data, 100))
	require.False(t, FitsCeiling(append(data, 0), 100))
}

func TestFitsCeilingDisabledWhenNonPositive(t *testing.T) {
	big := make([]byte, 1<<20)
	require.True(t, FitsCeiling(big, 0))
	require.True(t, FitsCeiling(big, -1))
}

func TestDataURI(t *testing.T) {
	uri := DataURI("image/png", []byte{1, 2, 3})
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	require.Equal(t, "data:image/png;base64,"+ToBase64([]byte{1, 2, 3}), uri)
}
