package sgemm

import "github.com/chewxy/math32"

// Add performs element-wise addition: C = A + B.
func Add(a, b *Matrix) *Matrix {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic("matrix dimensions must match for addition")
	}
	result := NewMatrix(a.Rows, a.Cols)
	for i := 0; i < len(a.Data); i++ {
		result.Data[i] = a.Data[i] + b.Data[i]
	}
	return result
}

// Sub performs element-wise subtraction: C = A - B.
func Sub(a, b *Matrix) *Matrix {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic("matrix dimensions must match for subtraction")
	}
	result := NewMatrix(a.Rows, a.Cols)
	for i := 0; i < len(a.Data); i++ {
		result.Data[i] = a.Data[i] - b.Data[i]
	}
	return result
}

// Scale multiplies all elements by a scalar.
func Scale(m *Matrix, scalar float32) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := 0; i < len(m.Data); i++ {
		result.Data[i] = m.Data[i] * scalar
	}
	return result
}

// Dot computes the dot product of two equally sized buffers.
func Dot(a, b *Matrix) float32 {
	if len(a.Data) != len(b.Data) {
		panic("buffers must have the same length for dot product")
	}
	var sum float32
	for i := 0; i < len(a.Data); i++ {
		sum += a.Data[i] * b.Data[i]
	}
	return sum
}

// Sum returns the sum of all elements.
func Sum(m *Matrix) float32 {
	var sum float32
	for _, v := range m.Data {
		sum += v
	}
	return sum
}

// Norm computes the Frobenius norm of the matrix.
func Norm(m *Matrix) float32 {
	var sum float32
	for _, v := range m.Data {
		sum += v * v
	}
	return math32.Sqrt(sum)
}

// MaxAbsDiff returns the largest absolute element-wise difference between
// two equally shaped matrices. Useful when reporting a verification failure.
func MaxAbsDiff(a, b *Matrix) float32 {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic("matrix dimensions must match for comparison")
	}
	var maxDiff float32
	for i := range a.Data {
		if d := math32.Abs(a.Data[i] - b.Data[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
