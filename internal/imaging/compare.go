package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// CompareResult summarizes how far two equally shaped arrays are apart.
type CompareResult struct {
	// Shape is the common shape of both inputs.
	Shape []int `json:"shape"`

	// SimilarityScore is the fraction of pixels that are not different (0-1).
	SimilarityScore float64 `json:"similarity_score"`

	// PixelsDifferent counts pixels whose mean channel difference exceeds 10.
	PixelsDifferent int `json:"pixels_different"`

	// TotalPixels is height*width for images, the element count otherwise.
	TotalPixels int `json:"total_pixels"`

	// MeanAbsDiff is the mean absolute difference over all elements.
	MeanAbsDiff float64 `json:"mean_abs_diff"`

	// MaxAbsDiff is the largest absolute difference of any element.
	MaxAbsDiff float64 `json:"max_abs_diff"`
}

// Compare measures the difference between two arrays of identical shape.
// For (height, width, 3) arrays, differences are averaged per pixel across
// channels; for any other shape each element is its own pixel.
func Compare(a, b *ndarray.Array) (*CompareResult, error) {
	if !a.Shape().Equal(b.Shape()) {
		return nil, fmt.Errorf("cannot compare shapes %v and %v: %w", a.Shape(), b.Shape(), ndarray.ErrShapeMismatch)
	}
	av, bv := a.Values(), b.Values()
	if av == nil || bv == nil {
		return nil, fmt.Errorf("compare needs numeric arrays: %w", ndarray.ErrDType)
	}

	group := 1
	if requireRGB(a) == nil {
		group = 3
	}

	total := len(av) / group
	different := 0
	var sum, maxDiff float64

	for p := 0; p < total; p++ {
		var pixel float64
		for c := 0; c < group; c++ {
			d := math.Abs(av[p*group+c] - bv[p*group+c])
			pixel += d
			sum += d
			if d > maxDiff {
				maxDiff = d
			}
		}
		if pixel/float64(group) > 10 {
			different++
		}
	}

	result := &CompareResult{
		Shape:           a.Shape(),
		SimilarityScore: 1,
		PixelsDifferent: different,
		TotalPixels:     total,
		MaxAbsDiff:      maxDiff,
	}
	if total > 0 {
		result.SimilarityScore = math.Round((1-float64(different)/float64(total))*1000) / 1000
		result.MeanAbsDiff = math.Round(sum/float64(len(av))*100) / 100
	}
	return result, nil
}
