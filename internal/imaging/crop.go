package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// Crop slices an image array with a selection and returns the result as
// PNG, optionally resized by scale.
//
// The selection is applied exactly as ndarray.Slice does, so
// [Range(50,100), All()] is a[50:100, :] and [All(), All(), Pos(0)] is the
// red channel rendered in grayscale. The sliced array must be 2-d or have
// three channels. A scale of 0 or 1 keeps the size; negative scales are
// rejected.
func Crop(arr *ndarray.Array, sel []ndarray.Selector, scale float64) (*EncodedImage, error) {
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("scale must be a positive number, got %v", scale)
	}
	sliced, err := arr.Slice(sel...)
	if err != nil {
		return nil, err
	}
	if sliced.Size() == 0 {
		return nil, fmt.Errorf("selection is empty, shape %v", sliced.Shape())
	}

	img, err := FromArray(sliced)
	if err != nil {
		return nil, err
	}

	if scale != 1.0 && scale > 0 {
		b := img.Bounds()
		newWidth := int(float64(b.Dx()) * scale)
		newHeight := int(float64(b.Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %v shrinks %dx%d to nothing", scale, b.Dx(), b.Dy())
		}
		if err := (ndarray.Shape{newHeight, newWidth, 3}).Validate(); err != nil {
			return nil, fmt.Errorf("scale %v: %w", scale, err)
		}
		resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
		if len(sliced.Shape()) == 2 {
			gray := image.NewGray(resized.Bounds())
			draw.Draw(gray, gray.Bounds(), resized, resized.Bounds().Min, draw.Src)
			return encodeImage(gray)
		}
		return encodeImage(resized)
	}

	return encodeImage(img)
}

// QuadrantSelection maps a named region to a selection over a
// (height, width, ...) array.
//
// Supported names: top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half and center (the middle 50%).
func QuadrantSelection(shape ndarray.Shape, region string) ([]ndarray.Selector, error) {
	if len(shape) < 2 {
		return nil, fmt.Errorf("named regions need at least 2 dimensions, got shape %v", shape)
	}
	h, w := shape[0], shape[1]
	midY, midX := h/2, w/2

	var y1, y2, x1, x2 int
	switch region {
	case "top-left":
		y1, y2, x1, x2 = 0, midY, 0, midX
	case "top-right":
		y1, y2, x1, x2 = 0, midY, midX, w
	case "bottom-left":
		y1, y2, x1, x2 = midY, h, 0, midX
	case "bottom-right":
		y1, y2, x1, x2 = midY, h, midX, w
	case "top-half":
		y1, y2, x1, x2 = 0, midY, 0, w
	case "bottom-half":
		y1, y2, x1, x2 = midY, h, 0, w
	case "left-half":
		y1, y2, x1, x2 = 0, h, 0, midX
	case "right-half":
		y1, y2, x1, x2 = 0, h, midX, w
	case "center":
		qH, qW := h/4, w/4
		y1, y2, x1, x2 = qH, h-qH, qW, w-qW
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}

	return []ndarray.Selector{ndarray.Range(y1, y2), ndarray.Range(x1, x2)}, nil
}

// CropQuadrant crops a named region of an image.
func CropQuadrant(arr *ndarray.Array, region string, scale float64) (*EncodedImage, error) {
	sel, err := QuadrantSelection(arr.Shape(), region)
	if err != nil {
		return nil, err
	}
	return Crop(arr, sel, scale)
}

// Fit resizes a (height, width, 3) image array to the given size with
// Lanczos resampling. It is used to bring two images to the same shape
// before combining them.
func Fit(arr *ndarray.Array, height, width int) (*ndarray.Array, error) {
	if err := requireRGB(arr); err != nil {
		return nil, err
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("fit target %dx%d: %w", height, width, ndarray.ErrInvalidShape)
	}
	shape := arr.Shape()
	if shape[0] == height && shape[1] == width {
		return arr, nil
	}

	img, err := FromArray(arr)
	if err != nil {
		return nil, err
	}
	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	return ToArray(resized)
}
