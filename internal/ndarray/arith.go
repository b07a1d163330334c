package ndarray

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Add returns a + b elementwise, broadcasting as NumPy does.
func (a *Array) Add(b *Array) (*Array, error) {
	return a.binary(b, "add", func(x, y float64) float64 { return x + y })
}

// Sub returns a - b elementwise, broadcasting as NumPy does.
func (a *Array) Sub(b *Array) (*Array, error) {
	return a.binary(b, "subtract", func(x, y float64) float64 { return x - y })
}

// Scale returns s * a.
func (a *Array) Scale(s float64) (*Array, error) {
	return a.scalar(s, func(x float64) float64 { return x * s })
}

// AddScalar returns a + s.
func (a *Array) AddScalar(s float64) (*Array, error) {
	return a.scalar(s, func(x float64) float64 { return x + s })
}

// Clip limits every element to [lo, hi]. The dtype is preserved.
func (a *Array) Clip(lo, hi float64) (*Array, error) {
	if !a.dtype.numeric() {
		return nil, fmt.Errorf("%w: clip on %s", ErrDType, a.dtype)
	}
	if lo > hi {
		return nil, fmt.Errorf("clip bounds inverted: %v > %v", lo, hi)
	}
	out := &Array{shape: a.shape.Clone(), dtype: a.dtype, data: make([]float64, len(a.data))}
	for i, v := range a.data {
		out.data[i] = castValue(a.dtype, math.Max(lo, math.Min(hi, v)))
	}
	return out, nil
}

func (a *Array) binary(b *Array, name string, fn func(x, y float64) float64) (*Array, error) {
	dtype, err := promote(a.dtype, b.dtype)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := &Array{shape: shape, dtype: dtype, data: make([]float64, shape.NumElements())}
	if a.shape.Equal(b.shape) {
		for i := range out.data {
			out.data[i] = castValue(dtype, fn(a.data[i], b.data[i]))
		}
		return out, nil
	}

	aStr := broadcastStrides(a.shape, shape)
	bStr := broadcastStrides(b.shape, shape)
	idx := make([]int, len(shape))
	aOff, bOff := 0, 0
	for i := range out.data {
		out.data[i] = castValue(dtype, fn(a.data[aOff], b.data[bOff]))

		// Advance the row-major counter, carrying into outer dimensions.
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			aOff += aStr[d]
			bOff += bStr[d]
			if idx[d] < shape[d] {
				break
			}
			aOff -= aStr[d] * idx[d]
			bOff -= bStr[d] * idx[d]
			idx[d] = 0
		}
	}
	return out, nil
}

func (a *Array) scalar(s float64, fn func(x float64) float64) (*Array, error) {
	dtype, err := promoteScalar(a.dtype, s)
	if err != nil {
		return nil, err
	}
	out := &Array{shape: a.shape.Clone(), dtype: dtype, data: make([]float64, len(a.data))}
	for i, v := range a.data {
		out.data[i] = castValue(dtype, fn(v))
	}
	return out, nil
}

// AsType returns a copy converted to dtype t.
//
// Numeric conversions truncate toward zero; conversion to Uint8 then wraps
// modulo 256. Conversion to String formats each element; conversion from
// String parses it and fails with ErrDType on malformed input.
func (a *Array) AsType(t DType) (*Array, error) {
	if t == Unspecified {
		t = a.dtype
	}
	out := &Array{shape: a.shape.Clone(), dtype: t}

	switch {
	case a.dtype == String && t == String:
		out.text = a.Strings()
	case t == String:
		out.text = make([]string, len(a.data))
		for i, v := range a.data {
			out.text[i] = textElement(a.dtype, v)
		}
	case a.dtype == String:
		out.data = make([]float64, len(a.text))
		for i, s := range a.text {
			v, err := parseElement(t, s)
			if err != nil {
				return nil, err
			}
			out.data[i] = v
		}
	default:
		out.data = make([]float64, len(a.data))
		for i, v := range a.data {
			out.data[i] = castValue(t, v)
		}
	}
	return out, nil
}

func parseElement(t DType, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if t == Bool {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid literal for bool: %q", ErrDType, s)
		}
		return castValue(Bool, boolValue(b)), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid literal for %s: %q", ErrDType, t, s)
	}
	return castValue(t, v), nil
}

// textElement is the string form used when casting to String. Floats keep a
// trailing ".0" when integral, as Python prints them.
func textElement(t DType, v float64) string {
	if t != Float64 {
		return formatElement(t, v)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eNI") {
		s += ".0"
	}
	return s
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Equal reports whether two arrays have the same shape, dtype and elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.dtype != b.dtype || !a.shape.Equal(b.shape) {
		return false
	}
	if a.dtype == String {
		for i := range a.text {
			if a.text[i] != b.text[i] {
				return false
			}
		}
		return true
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}
