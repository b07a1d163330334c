package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// EncodedImage is a rendered array, returned as base64 PNG.
type EncodedImage struct {
	// Shape is the shape of the rendered array: (height, width) for
	// grayscale, (height, width, 3) for RGB.
	Shape []int `json:"shape"`

	// Width of the image in pixels.
	Width int `json:"width"`

	// Height of the image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the PNG-encoded image.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// Encode renders a uint8 array as a base64 PNG.
func Encode(arr *ndarray.Array) (*EncodedImage, error) {
	img, err := FromArray(arr)
	if err != nil {
		return nil, err
	}
	return encodeImage(img)
}

func encodeImage(img image.Image) (*EncodedImage, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot encode empty image %dx%d", b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	shape := []int{b.Dy(), b.Dx()}
	if _, gray := img.(*image.Gray); !gray {
		shape = append(shape, 3)
	}

	return &EncodedImage{
		Shape:       shape,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes a uint8 array to path. The encoder is chosen by extension:
// ".jpg"/".jpeg" write JPEG at quality 95, anything else writes PNG.
// Missing parent directories are created.
func Save(path string, arr *ndarray.Array) error {
	img, err := FromArray(arr)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	encoder := imgio.PNGEncoder()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		encoder = imgio.JPEGEncoder(95)
	}

	if err := imgio.Save(path, img, encoder); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
