// Package sgemm provides dense single-precision matrix multiplication kernels.
// It implements a family of C = A · B variants that share one mathematical
// contract but differ in loop order, operand storage layout and cache blocking,
// plus a harness that times them and cross-checks their outputs.
package sgemm

import (
	"fmt"
	"strings"
)

// Matrix is a 2D single-precision matrix stored in row-major order.
// The underlying data is a flat slice: value(r, c) = Data[r*Cols+c].
// Dimensions are fixed for the lifetime of the matrix.
type Matrix struct {
	Data []float32
	Rows int
	Cols int
}

// NewMatrix creates a rows×cols matrix with all elements set to zero.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Data: make([]float32, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// NewMatrixFromSlice creates a matrix from a 2D slice.
func NewMatrixFromSlice(data [][]float32) *Matrix {
	if len(data) == 0 {
		return NewMatrix(0, 0)
	}
	rows := len(data)
	cols := len(data[0])
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, data[i][j])
		}
	}
	return m
}

// NewMatrixFromFlat creates a matrix from a flat row-major slice.
// The slice is copied, not retained.
func NewMatrixFromFlat(data []float32, rows, cols int) *Matrix {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("data length %d doesn't match dimensions %dx%d", len(data), rows, cols))
	}
	dataCopy := make([]float32, len(data))
	copy(dataCopy, data)
	return &Matrix{
		Data: dataCopy,
		Rows: rows,
		Cols: cols,
	}
}

// Index returns the flat index for the given row and column.
func (m *Matrix) Index(row, col int) int {
	return row*m.Cols + col
}

// At returns the element at position (row, col).
func (m *Matrix) At(row, col int) float32 {
	return m.Data[m.Index(row, col)]
}

// Set sets the element at position (row, col).
func (m *Matrix) Set(row, col int, value float32) {
	m.Data[m.Index(row, col)] = value
}

// Clone creates a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	dataCopy := make([]float32, len(m.Data))
	copy(dataCopy, m.Data)
	return &Matrix{
		Data: dataCopy,
		Rows: m.Rows,
		Cols: m.Cols,
	}
}

// Shape returns the dimensions of the matrix.
func (m *Matrix) Shape() (int, int) {
	return m.Rows, m.Cols
}

// Zero resets every element to zero, keeping the buffer.
func (m *Matrix) Zero() {
	for i := range m.Data {
		m.Data[i] = 0
	}
}

// Transpose returns a freshly allocated transpose of the matrix.
// Transposing twice recovers the original exactly: the operation is a pure
// permutation and introduces no floating-point error.
func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.Cols, m.Rows)
	// TransposeInto cannot fail on a fresh, correctly sized buffer.
	_ = m.TransposeInto(result)
	return result
}

// TransposeInto writes the transpose of m into dst, which must be pre-sized
// to Cols×Rows and must not share a buffer with m. Runs in O(Rows·Cols) with
// no early exit.
func (m *Matrix) TransposeInto(dst *Matrix) error {
	if dst.Rows != m.Cols || dst.Cols != m.Rows {
		return fmt.Errorf("transpose into %dx%d from %dx%d: %w", dst.Rows, dst.Cols, m.Rows, m.Cols, ErrShape)
	}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			dst.Data[j*dst.Cols+i] = m.Data[i*m.Cols+j]
		}
	}
	return nil
}

// Pad returns a rows×cols copy of m extended with zeros. Padding the shared
// dimension K is value-preserving for a product: the extra terms contribute
// zero to every sum.
func (m *Matrix) Pad(rows, cols int) *Matrix {
	if rows < m.Rows || cols < m.Cols {
		panic(fmt.Sprintf("cannot pad %dx%d down to %dx%d", m.Rows, m.Cols, rows, cols))
	}
	if rows == m.Rows && cols == m.Cols {
		return m.Clone()
	}
	result := NewMatrix(rows, cols)
	for i := 0; i < m.Rows; i++ {
		copy(result.Data[i*cols:i*cols+m.Cols], m.Data[i*m.Cols:(i+1)*m.Cols])
	}
	return result
}

// Submatrix extracts the rows×cols region at the top-left corner.
func (m *Matrix) Submatrix(rows, cols int) *Matrix {
	result := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		copy(result.Data[i*cols:(i+1)*cols], m.Data[i*m.Cols:i*m.Cols+cols])
	}
	return result
}

// String returns a printable representation of the matrix.
func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Matrix(%dx%d):\n", m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.Cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%.4f", m.At(i, j))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// Zeros creates a matrix filled with zeros.
func Zeros(rows, cols int) *Matrix {
	return NewMatrix(rows, cols)
}

// Ones creates a matrix filled with ones.
func Ones(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = 1.0
	}
	return m
}

// Eye creates an n×n identity matrix.
func Eye(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m
}
