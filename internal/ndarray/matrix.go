package ndarray

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToDense converts a non-empty 2-d numeric array to a gonum dense matrix.
func (a *Array) ToDense() (*mat.Dense, error) {
	if !a.dtype.numeric() {
		return nil, fmt.Errorf("%w: %s array to matrix", ErrDType, a.dtype)
	}
	if len(a.shape) != 2 {
		return nil, fmt.Errorf("%w: matrix needs 2 dimensions, got shape %v", ErrShapeMismatch, a.shape)
	}
	if a.Size() == 0 {
		return nil, fmt.Errorf("%w: empty matrix %v", ErrInvalidShape, a.shape)
	}
	return mat.NewDense(a.shape[0], a.shape[1], a.Values()), nil
}

// FromDense converts any gonum matrix to a 2-d Float64 array.
func FromDense(m mat.Matrix) *Array {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return &Array{shape: Shape{r, c}, dtype: Float64, data: data}
}

// MatAdd adds two matrices of identical shape through gonum.
func MatAdd(a, b *Array) (*Array, error) {
	return matBinary(a, b, func(dst *mat.Dense, x, y mat.Matrix) { dst.Add(x, y) })
}

// MatSub subtracts b from a through gonum.
func MatSub(a, b *Array) (*Array, error) {
	return matBinary(a, b, func(dst *mat.Dense, x, y mat.Matrix) { dst.Sub(x, y) })
}

// MatScale multiplies a matrix by a scalar through gonum.
func MatScale(s float64, a *Array) (*Array, error) {
	m, err := a.ToDense()
	if err != nil {
		return nil, err
	}
	var dst mat.Dense
	dst.Scale(s, m)
	return resultAs(FromDense(&dst), a.dtype, a.dtype, s)
}

// matBinary checks shapes up front because gonum panics on mismatch.
func matBinary(a, b *Array, op func(dst *mat.Dense, x, y mat.Matrix)) (*Array, error) {
	if !a.shape.Equal(b.shape) {
		return nil, fmt.Errorf("%w: matrix shapes %v and %v", ErrShapeMismatch, a.shape, b.shape)
	}
	ma, err := a.ToDense()
	if err != nil {
		return nil, err
	}
	mb, err := b.ToDense()
	if err != nil {
		return nil, err
	}
	var dst mat.Dense
	op(&dst, ma, mb)
	return resultAs(FromDense(&dst), a.dtype, b.dtype, 1)
}

// resultAs casts a gonum result back to the dtype elementwise arithmetic
// would have produced.
func resultAs(out *Array, a, b DType, s float64) (*Array, error) {
	t, err := promote(a, b)
	if err != nil {
		return nil, err
	}
	if t != Float64 {
		if t, err = promoteScalar(t, s); err != nil {
			return nil, err
		}
	}
	return out.AsType(t)
}
