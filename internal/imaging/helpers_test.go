package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// createTestImage writes a solid-color PNG and returns its path.
// The file lives in t.TempDir() and is removed with it.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

// createTestImageWithPattern writes a PNG with four colored quadrants:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func createTestImageWithPattern(t *testing.T, width, height int) string {
	t.Helper()
	return writePNG(t, patternImage(width, height))
}

func patternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return filepath.Clean(f.Name())
}

// solidArray builds a (h, w, 3) uint8 array filled with one pixel value.
func solidArray(t *testing.T, h, w int, r, g, b float64) *ndarray.Array {
	t.Helper()
	arr, err := ndarray.New(ndarray.Uint8, h, w, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for ch, v := range []float64{r, g, b} {
		if err := arr.Assign(v, ndarray.All(), ndarray.All(), ndarray.Pos(ch)); err != nil {
			t.Fatalf("Assign failed: %v", err)
		}
	}
	return arr
}

// pixel returns arr[row, col, :] as three values.
func pixel(t *testing.T, arr *ndarray.Array, row, col int) [3]float64 {
	t.Helper()
	var out [3]float64
	for c := 0; c < 3; c++ {
		v, err := arr.At(row, col, c)
		if err != nil {
			t.Fatalf("At(%d,%d,%d) failed: %v", row, col, c, err)
		}
		out[c] = v
	}
	return out
}
