// Package ndarray provides a small dense n-dimensional array type for
// numeric, boolean and string data.
//
// Arrays are stored row-major. Every array has a fixed Shape and a DType;
// numeric and boolean elements are kept as float64 internally and normalized
// to their dtype on every write, so an Int64 array never holds a fraction and
// a Uint8 array never holds a value outside [0,255].
//
// # Indexing and Slicing
//
// Selections use Python slice semantics, one Selector per dimension:
//
//	a.Slice(ndarray.Range(50, 100), ndarray.All())   // a[50:100, :]
//	a.Slice(ndarray.All(), ndarray.All(), ndarray.Pos(0)) // a[:, :, 0]
//
// ParseSelection accepts the same selections as text ("50:100, :").
// Pos drops its dimension; ranges keep it. Missing trailing selectors select
// the whole dimension. Slicing always copies; use Assign to write through a
// selection in place.
//
// # Arithmetic
//
// Add and Sub follow NumPy broadcasting rules. Scale and AddScalar apply a
// scalar to every element. Result dtypes are promoted as follows:
//   - any Float64 operand, or a non-integral scalar, yields Float64
//   - Uint8 with Uint8 (or an integral scalar) stays Uint8 and wraps
//   - everything else yields Int64
//
// String arrays support construction, indexing, slicing and casting, but no
// arithmetic.
//
// # Casting
//
// AsType(Uint8) truncates toward zero and wraps modulo 256, so 300 becomes 44
// and -1 becomes 255. NaN and infinities become 0. Clip can be applied first
// when saturation is wanted.
//
// # Errors
//
// Operations return wrapped sentinel errors (ErrShapeMismatch,
// ErrIndexOutOfRange, ErrDType, ErrInvalidShape, ErrSelection) that can be
// tested with errors.Is.
package ndarray
