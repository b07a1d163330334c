package ndarray

import (
	"fmt"
	"math/rand"
	"time"
)

// Array is a dense, row-major n-dimensional array.
//
// Numeric and boolean elements live in data; string elements live in text.
// Exactly one of the two is populated, depending on dtype.
type Array struct {
	shape Shape
	dtype DType
	data  []float64
	text  []string
}

// New returns a zero-filled array of the given dtype and shape.
// String arrays are filled with empty strings.
func New(dtype DType, shape ...int) (*Array, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if dtype == Unspecified {
		dtype = Float64
	}
	a := &Array{shape: s.Clone(), dtype: dtype}
	if dtype == String {
		a.text = make([]string, s.NumElements())
	} else {
		a.data = make([]float64, s.NumElements())
	}
	return a, nil
}

// Zeros is New spelled the NumPy way.
func Zeros(dtype DType, shape ...int) (*Array, error) {
	return New(dtype, shape...)
}

// Full returns an array of the given shape with every element set to value.
func Full(dtype DType, value float64, shape ...int) (*Array, error) {
	if dtype == String {
		return nil, fmt.Errorf("%w: Full with numeric fill value", ErrDType)
	}
	a, err := New(dtype, shape...)
	if err != nil {
		return nil, err
	}
	v := castValue(a.dtype, value)
	for i := range a.data {
		a.data[i] = v
	}
	return a, nil
}

// FromValues builds an array of the given shape from flat row-major values.
func FromValues(dtype DType, shape Shape, values []float64) (*Array, error) {
	if dtype == String {
		return nil, fmt.Errorf("%w: use FromStrings for string data", ErrDType)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidShape, len(values), shape)
	}
	if dtype == Unspecified {
		dtype = Float64
	}
	a := &Array{shape: shape.Clone(), dtype: dtype, data: make([]float64, len(values))}
	for i, v := range values {
		a.data[i] = castValue(dtype, v)
	}
	return a, nil
}

// Vector builds a 1-d numeric or boolean array. It panics if dtype is
// String; use FromStrings for text.
func Vector(dtype DType, values ...float64) *Array {
	a, err := FromValues(dtype, Shape{len(values)}, values)
	if err != nil {
		panic("ndarray: " + err.Error())
	}
	return a
}

// Matrix builds a 2-d array from rows of equal length.
func Matrix(dtype DType, rows [][]float64) (*Array, error) {
	if len(rows) == 0 {
		return FromValues(dtype, Shape{0, 0}, nil)
	}
	cols := len(rows[0])
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrInvalidShape, i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return FromValues(dtype, Shape{len(rows), cols}, flat)
}

// FromStrings builds a 1-d string array.
func FromStrings(values ...string) *Array {
	text := make([]string, len(values))
	copy(text, values)
	return &Array{shape: Shape{len(values)}, dtype: String, text: text}
}

// FromBools builds a 1-d boolean array.
func FromBools(values ...bool) *Array {
	data := make([]float64, len(values))
	for i, v := range values {
		if v {
			data[i] = 1
		}
	}
	return &Array{shape: Shape{len(values)}, dtype: Bool, data: data}
}

// Scalar returns a 0-d Float64 array.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, dtype: Float64, data: []float64{v}}
}

// Rand returns a Float64 array of the given shape with samples drawn
// uniformly from [0, 1). A nil rng uses a time-seeded source.
func Rand(rng *rand.Rand, shape ...int) (*Array, error) {
	a, err := New(Float64, shape...)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := range a.data {
		a.data[i] = rng.Float64()
	}
	return a, nil
}

// RandInt returns a random integer in [lo, hi).
func RandInt(rng *rand.Rand, lo, hi int) (int, error) {
	if hi <= lo {
		return 0, fmt.Errorf("low >= high: %d >= %d", lo, hi)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return lo + rng.Intn(hi-lo), nil
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the number of elements.
func (a *Array) Size() int { return a.shape.NumElements() }

// DType returns the element type.
func (a *Array) DType() DType { return a.dtype }

// Values returns a copy of the flat row-major numeric data.
// It returns nil for string arrays.
func (a *Array) Values() []float64 {
	if a.data == nil {
		return nil
	}
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// Strings returns a copy of the flat row-major string data.
// It returns nil for non-string arrays.
func (a *Array) Strings() []string {
	if a.text == nil {
		return nil
	}
	out := make([]string, len(a.text))
	copy(out, a.text)
	return out
}

// Copy returns a deep copy of the array.
func (a *Array) Copy() *Array {
	return &Array{
		shape: a.shape.Clone(),
		dtype: a.dtype,
		data:  a.Values(),
		text:  a.Strings(),
	}
}

// Reshape returns a copy with a new shape holding the same number of elements.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != a.Size() {
		return nil, fmt.Errorf("%w: cannot reshape array of size %d into shape %v",
			ErrShapeMismatch, a.Size(), s)
	}
	out := a.Copy()
	out.shape = s.Clone()
	return out, nil
}

// offset converts a full index into a flat position.
func (a *Array) offset(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("%w: %d indices for %d-d array", ErrSelection, len(idx), len(a.shape))
	}
	strides := a.shape.Strides()
	off := 0
	for d, i := range idx {
		n := a.shape[d]
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return 0, fmt.Errorf("%w: index %d for axis %d with size %d", ErrIndexOutOfRange, idx[d], d, n)
		}
		off += i * strides[d]
	}
	return off, nil
}

// At returns the numeric element at a full index. Negative indices count
// from the end of their dimension.
func (a *Array) At(idx ...int) (float64, error) {
	if a.dtype == String {
		return 0, fmt.Errorf("%w: At on string array, use StringAt", ErrDType)
	}
	off, err := a.offset(idx)
	if err != nil {
		return 0, err
	}
	return a.data[off], nil
}

// StringAt returns the string element at a full index.
func (a *Array) StringAt(idx ...int) (string, error) {
	if a.dtype != String {
		return "", fmt.Errorf("%w: StringAt on %s array", ErrDType, a.dtype)
	}
	off, err := a.offset(idx)
	if err != nil {
		return "", err
	}
	return a.text[off], nil
}

// Set writes a numeric element at a full index, normalized to the dtype.
func (a *Array) Set(v float64, idx ...int) error {
	if a.dtype == String {
		return fmt.Errorf("%w: Set on string array", ErrDType)
	}
	off, err := a.offset(idx)
	if err != nil {
		return err
	}
	a.data[off] = castValue(a.dtype, v)
	return nil
}

// Index returns a[i]: the sub-array at position i of the leading dimension.
func (a *Array) Index(i int) (*Array, error) {
	return a.Slice(Pos(i))
}
