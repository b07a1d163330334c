package imaging

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/noise"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// CombineMode selects how LinearCombinationWith weights its two inputs.
type CombineMode int

const (
	// CombineConvex computes alpha*m1 + (1-alpha)*m2. Alpha 1 gives m1,
	// alpha 0 gives m2.
	CombineConvex CombineMode = iota

	// CombineUniform computes alpha*m1 + alpha*m2: both inputs share the
	// same weight. Alpha 0 gives black and alpha 1 gives the wrapped sum.
	CombineUniform
)

// String returns the mode name used in configuration and tool arguments.
func (m CombineMode) String() string {
	if m == CombineUniform {
		return "uniform"
	}
	return "convex"
}

// ParseCombineMode maps "convex" (or "") and "uniform" to a CombineMode.
func ParseCombineMode(s string) (CombineMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "convex":
		return CombineConvex, nil
	case "uniform":
		return CombineUniform, nil
	default:
		return CombineConvex, fmt.Errorf("unknown combine mode: %s", s)
	}
}

// BlendOptions adjusts LinearCombinationWith and AddRandomNoiseWith.
type BlendOptions struct {
	// Mode selects the weighting of a linear combination.
	Mode CombineMode

	// Saturate clips the result into [0,255] before the uint8 cast.
	// Without it, out-of-range values wrap modulo 256.
	Saturate bool
}

// LinearCombination blends two arrays as alpha*m1 + (1-alpha)*m2 and casts
// the result to uint8.
//
// Alpha is not range-checked. Values outside [0,1] can push elements out of
// [0,255], where the cast wraps rather than saturates. Shapes must match or
// broadcast; otherwise ndarray.ErrShapeMismatch is returned.
func LinearCombination(m1, m2 *ndarray.Array, alpha float64) (*ndarray.Array, error) {
	return LinearCombinationWith(m1, m2, alpha, BlendOptions{})
}

// LinearCombinationWith is LinearCombination with an explicit weighting mode
// and overflow policy.
func LinearCombinationWith(m1, m2 *ndarray.Array, alpha float64, opts BlendOptions) (*ndarray.Array, error) {
	w1, w2 := alpha, 1-alpha
	if opts.Mode == CombineUniform {
		w2 = alpha
	}

	// Promote up front when saturating so no intermediate uint8 wraps.
	if opts.Saturate {
		var err error
		if m1, err = m1.AsType(ndarray.Float64); err != nil {
			return nil, err
		}
		if m2, err = m2.AsType(ndarray.Float64); err != nil {
			return nil, err
		}
	}

	a, err := m1.Scale(w1)
	if err != nil {
		return nil, fmt.Errorf("linear combination: %w", err)
	}
	b, err := m2.Scale(w2)
	if err != nil {
		return nil, fmt.Errorf("linear combination: %w", err)
	}
	sum, err := a.Add(b)
	if err != nil {
		return nil, fmt.Errorf("linear combination: %w", err)
	}
	return toPixels(sum, opts.Saturate)
}

// AddRandomNoise adds noise to an image and casts the result to uint8.
// The noise may be any array that broadcasts to the image's shape,
// including a 0-d scalar. Sums above 255 wrap.
func AddRandomNoise(img, noise *ndarray.Array) (*ndarray.Array, error) {
	return AddRandomNoiseWith(img, noise, BlendOptions{})
}

// AddRandomNoiseScalar adds the same value to every element of img.
func AddRandomNoiseScalar(img *ndarray.Array, value float64) (*ndarray.Array, error) {
	return AddRandomNoise(img, ndarray.Scalar(value))
}

// AddRandomNoiseWith is AddRandomNoise with an overflow policy. Mode is
// ignored.
func AddRandomNoiseWith(img, noise *ndarray.Array, opts BlendOptions) (*ndarray.Array, error) {
	if opts.Saturate {
		var err error
		if img, err = img.AsType(ndarray.Float64); err != nil {
			return nil, err
		}
	}
	sum, err := img.Add(noise)
	if err != nil {
		return nil, fmt.Errorf("add noise: %w", err)
	}
	return toPixels(sum, opts.Saturate)
}

func toPixels(arr *ndarray.Array, saturate bool) (*ndarray.Array, error) {
	if saturate {
		var err error
		if arr, err = arr.Clip(0, 255); err != nil {
			return nil, err
		}
	}
	return arr.AsType(ndarray.Uint8)
}

// RandomNoise returns uniform noise in [0, scale) as a float64 array.
func RandomNoise(rng *rand.Rand, scale float64, shape ...int) (*ndarray.Array, error) {
	r, err := ndarray.Rand(rng, shape...)
	if err != nil {
		return nil, err
	}
	return r.Scale(scale)
}

// NoiseImage generates a (height, width, 3) uint8 noise image with bild.
//
// bild fills rows in parallel, so a non-nil rng is guarded by a mutex and the
// pixel order of draws is not reproducible, even for a fixed seed. A nil rng
// uses bild's uniform generator.
func NoiseImage(rng *rand.Rand, height, width int, monochrome bool) (*ndarray.Array, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("noise image size %dx%d: %w", height, width, ndarray.ErrInvalidShape)
	}
	if err := (ndarray.Shape{height, width, 3}).Validate(); err != nil {
		return nil, fmt.Errorf("noise image: %w", err)
	}

	fn := noise.Uniform
	if rng != nil {
		var mu sync.Mutex
		fn = func() uint8 {
			mu.Lock()
			defer mu.Unlock()
			return uint8(rng.Intn(256))
		}
	}

	img := noise.Generate(width, height, &noise.Options{NoiseFn: fn, Monochrome: monochrome})
	return ToArray(img)
}
