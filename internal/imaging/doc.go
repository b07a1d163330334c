// Package imaging converts images to pixel arrays and implements the
// array-level image operations of the walkthrough: blending, noise, solid
// colors, channel extraction, cropping by selection and comparison.
//
// # Pixel Arrays
//
// An RGB image is a (height, width, 3) uint8 ndarray.Array, indexed as
// img[row, col, channel] with (0,0) at the top-left corner and channels in
// R, G, B order. A (height, width) uint8 array is a grayscale image, which is
// what a single-channel slice such as img[:, :, 0] renders as.
//
// # Blending
//
// LinearCombination computes alpha*m1 + (1-alpha)*m2 and casts to uint8.
// LinearCombinationWith can instead weight both inputs by alpha
// (CombineUniform), and can saturate instead of wrap. AddRandomNoise adds a
// scalar or broadcastable array and casts to uint8.
//
// # Overflow
//
// The uint8 cast wraps modulo 256 unless BlendOptions.Saturate is set:
// 200 + 100 becomes 44, not 255.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and return new arrays; arrays handed out by the cache must not
// be mutated.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O and decode failures during loading
//   - Shapes that do not broadcast (wrapping ndarray.ErrShapeMismatch)
//   - Arrays that are not (height, width, 3) where an RGB image is required
//   - Non-uint8 arrays passed to rendering functions
package imaging
