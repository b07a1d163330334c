package ndarray

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxElements caps the number of elements a single array may hold.
const MaxElements = 1 << 28

// Shape represents the size of each dimension of an array.
// An empty Shape describes a 0-d (scalar) array.
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative and that the element count
// neither overflows int nor exceeds MaxElements.
func (s Shape) Validate() error {
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension %d is %d", ErrInvalidShape, i, dim)
		}
		if dim > 0 && n > math.MaxInt/dim {
			return fmt.Errorf("%w: shape %v overflows the element count", ErrInvalidShape, []int(s))
		}
		n *= dim
	}
	if n > MaxElements {
		return fmt.Errorf("%w: shape %v holds %d elements, limit is %d", ErrInvalidShape, []int(s), n, MaxElements)
	}
	return nil
}

// Equal reports whether two shapes are identical.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Strides returns row-major strides: stride[i] is the product of all
// dimensions after i.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	step := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = step
		step *= s[i]
	}
	return strides
}

// String formats the shape as a tuple, e.g. "(250, 250, 3)" or "(4,)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// BroadcastShapes returns the shape two operands broadcast to.
//
// Shapes are compared right to left. Two dimensions are compatible when they
// are equal or when one of them is 1; missing leading dimensions count as 1.
//
//	(3, 1) + (3, 5)      -> (3, 5)
//	(250, 250, 3) + ()   -> (250, 250, 3)
//	(3, 4) + (3, 5)      -> error
func BroadcastShapes(a, b Shape) (Shape, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	result := make(Shape, n)

	for i := 0; i < n; i++ {
		aDim, bDim := 1, 1
		if ai := len(a) - 1 - i; ai >= 0 {
			aDim = a[ai]
		}
		if bi := len(b) - 1 - i; bi >= 0 {
			bDim = b[bi]
		}

		switch {
		case aDim == bDim:
			result[n-1-i] = aDim
		case aDim == 1:
			result[n-1-i] = bDim
		case bDim == 1:
			result[n-1-i] = aDim
		default:
			return nil, fmt.Errorf("%w: operands could not be broadcast together with shapes %v %v",
				ErrShapeMismatch, a, b)
		}
	}

	return result, nil
}

// broadcastStrides returns strides for reading an operand of shape s as if
// it had shape out. Broadcast dimensions get stride 0.
func broadcastStrides(s, out Shape) []int {
	own := s.Strides()
	strides := make([]int, len(out))
	offset := len(out) - len(s)
	for i := range out {
		si := i - offset
		if si < 0 || s[si] == 1 {
			continue
		}
		strides[i] = own[si]
	}
	return strides
}
