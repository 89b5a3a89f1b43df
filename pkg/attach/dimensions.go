package attach

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// SniffDimensions decodes just enough of an image to report its pixel
// dimensions. Returns ok=false for non-image or unrecognized data.
// PNG, JPEG, GIF and WebP are recognized.
func SniffDimensions(data []byte) (width, height int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
