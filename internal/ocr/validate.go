package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Decoders for every format tesseract accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Veraticus/spice-insight/internal/common"
)

// ValidateImage checks the declared media type and that data decodes as an
// image. It returns the detected format name.
func ValidateImage(mediaType string, data []byte) (string, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/") {
		return "", common.NewUserError("Please upload an image file.",
			fmt.Errorf("%w: media type %q", common.ErrNotAnImage, mediaType))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", common.NewUserError(fmt.Sprintf("Unable to read image: %v", err),
			fmt.Errorf("%w: %w", common.ErrUnreadableImage, err))
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", common.NewUserError("Unable to read image: empty image",
			fmt.Errorf("%w: %dx%d", common.ErrUnreadableImage, cfg.Width, cfg.Height))
	}

	return format, nil
}
