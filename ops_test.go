package sgemm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOps(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		a := NewMatrixFromSlice([][]float32{{1, 2}, {3, 4}})
		b := NewMatrixFromSlice([][]float32{{5, 6}, {7, 8}})
		assert.Equal(t, []float32{6, 8, 10, 12}, Add(a, b).Data)
		assert.Panics(t, func() { Add(a, NewMatrix(1, 2)) })
	})

	t.Run("Sub", func(t *testing.T) {
		a := NewMatrixFromSlice([][]float32{{5, 6}, {7, 8}})
		b := NewMatrixFromSlice([][]float32{{1, 2}, {3, 4}})
		assert.Equal(t, []float32{4, 4, 4, 4}, Sub(a, b).Data)
	})

	t.Run("Scale", func(t *testing.T) {
		a := NewMatrixFromSlice([][]float32{{1, 2}, {3, 4}})
		assert.Equal(t, []float32{2, 4, 6, 8}, Scale(a, 2).Data)
	})

	t.Run("Dot", func(t *testing.T) {
		a := NewMatrixFromSlice([][]float32{{1, 2, 3}})
		b := NewMatrixFromSlice([][]float32{{4, 5, 6}})
		assert.Equal(t, float32(32), Dot(a, b))
		assert.Panics(t, func() { Dot(a, NewMatrix(1, 2)) })
	})

	t.Run("Sum", func(t *testing.T) {
		assert.Equal(t, float32(10), Sum(NewMatrixFromSlice([][]float32{{1, 2}, {3, 4}})))
	})

	t.Run("Norm", func(t *testing.T) {
		assert.InDelta(t, 5.0, Norm(NewMatrixFromSlice([][]float32{{3, 4}})), 1e-6)
	})

	t.Run("MaxAbsDiff", func(t *testing.T) {
		a := NewMatrixFromSlice([][]float32{{1, 2}, {3, 4}})
		b := NewMatrixFromSlice([][]float32{{1, 2.5}, {2, 4}})
		assert.InDelta(t, 1.0, MaxAbsDiff(a, b), 1e-6)
		assert.Panics(t, func() { MaxAbsDiff(a, NewMatrix(1, 2)) })
	})
}
