package sgemm

import "fmt"

// StrassenThreshold is the size below which recursion falls back to a plain
// loop kernel. Strassen's bookkeeping makes it slower for small matrices.
const StrassenThreshold = 64

// Strassen multiplies two matrices with Strassen's O(n^2.807) recursion.
// Operands are zero-padded to a square power of two, and the seven
// sub-products per level replace the usual eight:
//
// For A = [A11 A12; A21 A22] and B = [B11 B12; B21 B22]:
//
//	M1 = (A11 + A22)(B11 + B22)
//	M2 = (A21 + A22)B11
//	M3 = A11(B12 - B22)
//	M4 = A22(B21 - B11)
//	M5 = (A11 + A12)B22
//	M6 = (A21 - A11)(B11 + B12)
//	M7 = (A12 - A22)(B21 + B22)
//
//	C11 = M1 + M4 - M5 + M7
//	C12 = M3 + M5
//	C21 = M2 + M4
//	C22 = M1 - M2 + M3 + M6
//
// The extra additions accumulate more rounding than the direct kernels, so
// results should be compared against Baseline with a looser tolerance.
func Strassen(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Rows {
		return nil, fmt.Errorf("A(%dx%d) × B(%dx%d): %w", a.Rows, a.Cols, b.Rows, b.Cols, ErrShape)
	}

	n := nextPowerOf2(max(a.Rows, a.Cols, b.Rows, b.Cols))
	cPadded := strassenRecursive(a.Pad(n, n), b.Pad(n, n))
	return cPadded.Submatrix(a.Rows, b.Cols), nil
}

func strassenRecursive(a, b *Matrix) *Matrix {
	n := a.Rows
	if n <= StrassenThreshold {
		return generalMultiply(a, b)
	}

	half := n / 2
	a11 := quadrant(a, 0, 0, half)
	a12 := quadrant(a, 0, half, half)
	a21 := quadrant(a, half, 0, half)
	a22 := quadrant(a, half, half, half)

	b11 := quadrant(b, 0, 0, half)
	b12 := quadrant(b, 0, half, half)
	b21 := quadrant(b, half, 0, half)
	b22 := quadrant(b, half, half, half)

	m1 := strassenRecursive(Add(a11, a22), Add(b11, b22))
	m2 := strassenRecursive(Add(a21, a22), b11)
	m3 := strassenRecursive(a11, Sub(b12, b22))
	m4 := strassenRecursive(a22, Sub(b21, b11))
	m5 := strassenRecursive(Add(a11, a12), b22)
	m6 := strassenRecursive(Sub(a21, a11), Add(b11, b12))
	m7 := strassenRecursive(Sub(a12, a22), Add(b21, b22))

	c11 := Add(Sub(Add(m1, m4), m5), m7)
	c12 := Add(m3, m5)
	c21 := Add(m2, m4)
	c22 := Add(Sub(Add(m1, m3), m2), m6)

	return combineQuadrants(c11, c12, c21, c22)
}

// generalMultiply is the recursion base case: an i-k-j loop with no layout
// or divisibility requirements.
func generalMultiply(a, b *Matrix) *Matrix {
	m, n, k := a.Rows, b.Cols, a.Cols
	c := NewMatrix(m, n)
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			ail := a.Data[i*k+l]
			for j := 0; j < n; j++ {
				c.Data[i*n+j] += ail * b.Data[l*n+j]
			}
		}
	}
	return c
}

// quadrant extracts a square size×size submatrix starting at (rowStart, colStart).
func quadrant(m *Matrix, rowStart, colStart, size int) *Matrix {
	result := NewMatrix(size, size)
	for i := 0; i < size; i++ {
		src := (rowStart+i)*m.Cols + colStart
		copy(result.Data[i*size:(i+1)*size], m.Data[src:src+size])
	}
	return result
}

// combineQuadrants assembles four half-size quadrants into one matrix.
func combineQuadrants(c11, c12, c21, c22 *Matrix) *Matrix {
	half := c11.Rows
	n := half * 2
	result := NewMatrix(n, n)
	for i := 0; i < half; i++ {
		copy(result.Data[i*n:i*n+half], c11.Data[i*half:(i+1)*half])
		copy(result.Data[i*n+half:(i+1)*n], c12.Data[i*half:(i+1)*half])
		copy(result.Data[(i+half)*n:(i+half)*n+half], c21.Data[i*half:(i+1)*half])
		copy(result.Data[(i+half)*n+half:(i+half+1)*n], c22.Data[i*half:(i+1)*half])
	}
	return result
}

// nextPowerOf2 returns the smallest power of 2 >= n.
func nextPowerOf2(n int) int {
	power := 1
	for power < n {
		power *= 2
	}
	return power
}
