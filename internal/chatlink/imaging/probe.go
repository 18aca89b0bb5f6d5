// Package imaging probes image attachments for their pixel dimensions so
// canonical history summaries and degrade notices can describe an image
// without carrying its bytes.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Dimensions returns "WxH" for a decodable image, or "" when the format is
// not recognized. Only the header is decoded; the pixel data is never read.
func Dimensions(data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}
