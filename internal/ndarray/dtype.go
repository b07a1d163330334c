package ndarray

import (
	"fmt"
	"math"
	"strings"
)

// DType identifies the element type of an array.
type DType int

// Supported element types. Unspecified asks constructors that take nested
// input to infer the type from the values.
const (
	Unspecified DType = iota
	Bool
	Int64
	Float64
	Uint8
	String
)

// String returns the NumPy-style name of the dtype.
func (t DType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Uint8:
		return "uint8"
	case String:
		return "str"
	default:
		return "unspecified"
	}
}

// ParseDType maps a dtype name to a DType. The empty string maps to
// Unspecified.
func ParseDType(name string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Unspecified, nil
	case "bool", "boolean":
		return Bool, nil
	case "int", "int64":
		return Int64, nil
	case "float", "float64":
		return Float64, nil
	case "uint8":
		return Uint8, nil
	case "str", "string":
		return String, nil
	default:
		return Unspecified, fmt.Errorf("%w: %q", ErrDType, name)
	}
}

func (t DType) numeric() bool {
	return t == Bool || t == Int64 || t == Float64 || t == Uint8
}

// castValue normalizes v to the representation used for dtype t.
func castValue(t DType, v float64) float64 {
	switch t {
	case Int64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return math.Trunc(v)
	case Uint8:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		m := math.Mod(math.Trunc(v), 256)
		if m < 0 {
			m += 256
		}
		return m
	case Bool:
		if v != 0 {
			return 1
		}
		return 0
	default:
		return v
	}
}

// promote returns the result dtype of a binary operation.
func promote(a, b DType) (DType, error) {
	if !a.numeric() || !b.numeric() {
		return Unspecified, fmt.Errorf("%w: cannot combine %s and %s", ErrDType, a, b)
	}
	switch {
	case a == Float64 || b == Float64:
		return Float64, nil
	case a == Uint8 && b == Uint8:
		return Uint8, nil
	default:
		return Int64, nil
	}
}

// promoteScalar returns the result dtype of combining t with scalar s.
func promoteScalar(t DType, s float64) (DType, error) {
	if !t.numeric() {
		return Unspecified, fmt.Errorf("%w: arithmetic on %s", ErrDType, t)
	}
	if t == Float64 || s != math.Trunc(s) || math.IsInf(s, 0) {
		return Float64, nil
	}
	if t == Uint8 {
		return Uint8, nil
	}
	return Int64, nil
}
