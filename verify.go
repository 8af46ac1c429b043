package sgemm

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Epsilon is the absolute tolerance used to compare kernel outputs.
// Floating-point summation order differs across kernels, so equality is
// approximate, never bitwise.
const Epsilon = 1e-4

// ErrVerify reports a kernel whose output disagrees with the baseline beyond
// tolerance. This is a hard correctness defect, not a performance concern.
var ErrVerify = errors.New("kernel output diverged from baseline")

// EqualEpsilon reports whether every pair of corresponding cells differs by
// less than the given absolute tolerance. The comparison is phrased so that
// a NaN cell never counts as equal: NaN satisfies no ordering, and a kernel
// that produces one must fail verification.
func (m *Matrix) EqualEpsilon(other *Matrix, eps float32) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i := range m.Data {
		if !(math32.Abs(m.Data[i]-other.Data[i]) < eps) {
			return false
		}
	}
	return true
}

// TinyCase returns the hand-checkable reference input: A (3×2), Bᵗ (4×2)
// and the expected product C (3×4).
func TinyCase() (a, bT, want *Matrix) {
	a = NewMatrixFromSlice([][]float32{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	bT = NewMatrixFromSlice([][]float32{
		{6, 5},
		{4, 3},
		{2, 1},
		{1, 2},
	})
	want = NewMatrixFromSlice([][]float32{
		{16, 10, 4, 5},
		{38, 24, 10, 11},
		{60, 38, 16, 17},
	})
	return a, bT, want
}

// VerifyKernel runs the tiny reference case through a kernel and checks the
// result within Epsilon. Dimensions the kernel requires to be block-aligned
// are zero-padded up to the next BlockWidth multiple and the comparison is
// restricted to the valid region.
func VerifyKernel(kernel Kernel) error {
	a, bT, want := TinyCase()
	b := bT.Transpose()

	padM, padK, padN := a.Rows, a.Cols, b.Cols
	switch kernel {
	case StripMined:
		padK = roundUp(padK, BlockWidth)
	case NBlocked, NBlockedInner:
		padN = roundUp(padN, BlockWidth)
	case Tiled:
		padM = roundUp(padM, BlockWidth)
		padN = roundUp(padN, BlockWidth)
	}

	c, err := Multiply(a.Pad(padM, padK), b.Pad(padK, padN), kernel)
	if err != nil {
		return err
	}
	if got := c.Submatrix(want.Rows, want.Cols); !got.EqualEpsilon(want, Epsilon) {
		return fmt.Errorf("%s on reference input: %w", kernel, ErrVerify)
	}
	return nil
}

func roundUp(x, w int) int {
	return (x + w - 1) / w * w
}
