package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// Channel indices of an RGB pixel array.
const (
	Red   = 0
	Green = 1
	Blue  = 2
)

// ToArray converts an image to a (height, width, 3) uint8 array.
//
// The image is first normalized to non-premultiplied RGBA so every color
// model (YCbCr JPEGs, paletted GIFs, 16-bit PNGs) reads the same way. The
// alpha channel is dropped.
func ToArray(img image.Image) (*ndarray.Array, error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	h, w := b.Dy(), b.Dx()

	values := make([]float64, 0, h*w*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+3]
			values = append(values, float64(px[0]), float64(px[1]), float64(px[2]))
		}
	}
	return ndarray.FromValues(ndarray.Uint8, ndarray.Shape{h, w, 3}, values)
}

// FromArray converts a uint8 array to an image.
//
// A (height, width, 3) array becomes an opaque *image.NRGBA; a
// (height, width) array becomes an *image.Gray, which is how a single
// channel slice such as a[:, :, 0] is displayed.
func FromArray(arr *ndarray.Array) (image.Image, error) {
	if arr.DType() != ndarray.Uint8 {
		return nil, fmt.Errorf("cannot build image from %s array, cast to uint8 first: %w",
			arr.DType(), ndarray.ErrDType)
	}

	shape := arr.Shape()
	values := arr.Values()

	switch {
	case len(shape) == 2:
		h, w := shape[0], shape[1]
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Pix[y*img.Stride+x] = uint8(values[y*w+x])
			}
		}
		return img, nil

	case len(shape) == 3 && shape[2] == 3:
		h, w := shape[0], shape[1]
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				src := (y*w + x) * 3
				dst := y*img.Stride + x*4
				img.Pix[dst] = uint8(values[src])
				img.Pix[dst+1] = uint8(values[src+1])
				img.Pix[dst+2] = uint8(values[src+2])
				img.Pix[dst+3] = 255
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("cannot build image from shape %v: %w", ndarray.Shape(shape), ndarray.ErrShapeMismatch)
	}
}

// requireRGB checks that arr is a (height, width, 3) pixel array.
func requireRGB(arr *ndarray.Array) error {
	shape := arr.Shape()
	if len(shape) != 3 || shape[2] != 3 {
		return fmt.Errorf("expected (height, width, 3) image, got shape %v: %w", shape, ndarray.ErrShapeMismatch)
	}
	return nil
}
