package sgemm

import (
	"errors"
	"fmt"
)

// BlockWidth is the fixed block width shared by the strip-mined and blocked
// kernels. 16 float32 values fill one 64-byte cache line, and a 16-wide sweep
// is a natural unit for the compiler to vectorize.
const BlockWidth = 16

var (
	// ErrShape reports incompatible operand or output dimensions.
	ErrShape = errors.New("dimension mismatch")
	// ErrBlockAlign reports a dimension that is not a multiple of BlockWidth.
	// Blocked kernels refuse such inputs instead of silently truncating.
	ErrBlockAlign = errors.New("dimension not divisible by block width")
)

// Kernel selects a matrix multiplication implementation. All kernels compute
// the same product C(m, n) = Σ_k A(m, k)·B(k, n); they differ only in loop
// order, operand storage layout and blocking, so their outputs agree within
// Epsilon rather than bitwise.
type Kernel int

const (
	// Baseline - natural A, transposed B, loop order m→n→k. Each output cell
	// is zeroed and accumulated exactly once. The canonical reference that
	// every other kernel is verified against.
	Baseline Kernel = iota
	// LayoutDual - transposed A, natural B, same loop order. The Aᵗ access is
	// strided by M per k step; the result is unchanged, only cache behavior.
	LayoutDual
	// StripMined - Baseline with the k loop split into BlockWidth-wide chunks.
	// Requires K % BlockWidth == 0.
	StripMined
	// NBlocked - C columns processed in BlockWidth-wide blocks, full K
	// reduction per row before the next block, k as the middle loop.
	// Requires N % BlockWidth == 0.
	NBlocked
	// NBlockedInner - the second realization of the N-blocked schedule, with
	// the block sweep innermost under k. Requires N % BlockWidth == 0.
	NBlockedInner
	// Tiled - both M and N tiled into BlockWidth-wide blocks with the full K
	// reduction hoisted inside each tile, maximizing reuse of the C tile and
	// the matching Aᵗ/B slices. Requires M and N % BlockWidth == 0.
	Tiled
)

// String returns the name of the kernel.
func (k Kernel) String() string {
	names := []string{"Baseline", "LayoutDual", "StripMined", "NBlocked", "NBlockedInner", "Tiled"}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Kernels returns every kernel variant, Baseline first.
func Kernels() []Kernel {
	return []Kernel{Baseline, LayoutDual, StripMined, NBlocked, NBlockedInner, Tiled}
}

// Precondition returns an error if the given dimensions violate the kernel's
// divisibility requirements. Checked before any computation begins.
func (k Kernel) Precondition(m, kk, n int) error {
	switch k {
	case StripMined:
		if kk%BlockWidth != 0 {
			return fmt.Errorf("%s: K=%d: %w %d", k, kk, ErrBlockAlign, BlockWidth)
		}
	case NBlocked, NBlockedInner:
		if n%BlockWidth != 0 {
			return fmt.Errorf("%s: N=%d: %w %d", k, n, ErrBlockAlign, BlockWidth)
		}
	case Tiled:
		if m%BlockWidth != 0 {
			return fmt.Errorf("%s: M=%d: %w %d", k, m, ErrBlockAlign, BlockWidth)
		}
		if n%BlockWidth != 0 {
			return fmt.Errorf("%s: N=%d: %w %d", k, n, ErrBlockAlign, BlockWidth)
		}
	}
	return nil
}

// Multiply computes C = A × B with the specified kernel. A is M×K and B is
// K×N in natural row-major form; transposed storage forms are derived
// internally where the kernel wants them.
func Multiply(a, b *Matrix, kernel Kernel) (*Matrix, error) {
	c := NewMatrix(a.Rows, b.Cols)
	if err := MultiplyInto(c, a, b, kernel); err != nil {
		return nil, err
	}
	return c, nil
}

// MultiplyInto computes C = A × B into a caller-owned output buffer. The
// output must be pre-sized to M×N and must not alias either input. Every
// kernel fully defines the output, so a reused buffer needs no zeroing
// between calls.
func MultiplyInto(c, a, b *Matrix, kernel Kernel) error {
	m, k, n := a.Rows, a.Cols, b.Cols
	if b.Rows != k {
		return fmt.Errorf("A(%dx%d) × B(%dx%d): %w", a.Rows, a.Cols, b.Rows, b.Cols, ErrShape)
	}
	if c.Rows != m || c.Cols != n {
		return fmt.Errorf("output %dx%d for %dx%d product: %w", c.Rows, c.Cols, m, n, ErrShape)
	}
	if err := kernel.Precondition(m, k, n); err != nil {
		return err
	}

	switch kernel {
	case Baseline:
		baselineGEMM(c, a, b.Transpose())
	case LayoutDual:
		layoutDualGEMM(c, a.Transpose(), b)
	case StripMined:
		stripMinedGEMM(c, a, b.Transpose())
	case NBlocked:
		nBlockedGEMM(c, a, b)
	case NBlockedInner:
		nBlockedInnerGEMM(c, a, b)
	case Tiled:
		tiledGEMM(c, a.Transpose(), b)
	default:
		return fmt.Errorf("unknown kernel: %d", kernel)
	}
	return nil
}

// baselineGEMM computes C(i, j) = Σ_l A(i, l)·Bᵗ(j, l) with loop order
// i→j→l. With B transposed, the inner loop reads both operands sequentially.
func baselineGEMM(c, a, bT *Matrix) {
	m, n, k := c.Rows, c.Cols, a.Cols
	for i := 0; i < m; i++ {
		aRow := a.Data[i*k : (i+1)*k]
		for j := 0; j < n; j++ {
			bRow := bT.Data[j*k : (j+1)*k]
			var sum float32
			for l := 0; l < k; l++ {
				sum += aRow[l] * bRow[l]
			}
			c.Data[i*n+j] = sum
		}
	}
}

// layoutDualGEMM computes the identical product from the dual layout:
// C(i, j) = Σ_l Aᵗ(l, i)·B(l, j). The Aᵗ read is strided by M per l step
// while B is contiguous per j within a fixed l.
func layoutDualGEMM(c, aT, b *Matrix) {
	m, n, k := c.Rows, c.Cols, aT.Rows
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for l := 0; l < k; l++ {
				sum += aT.Data[l*m+i] * b.Data[l*n+j]
			}
			c.Data[i*n+j] = sum
		}
	}
}

// stripMinedGEMM is baselineGEMM with the reduction loop split into
// BlockWidth-wide chunks. The chunk slices are hoisted so the innermost loop
// runs over a fixed-length window, which the compiler can unroll and
// vectorize. Caller guarantees K % BlockWidth == 0; nothing is dropped.
func stripMinedGEMM(c, a, bT *Matrix) {
	m, n, k := c.Rows, c.Cols, a.Cols
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for l0 := 0; l0 < k; l0 += BlockWidth {
				pa := a.Data[i*k+l0 : i*k+l0+BlockWidth]
				pb := bT.Data[j*k+l0 : j*k+l0+BlockWidth]
				for l2 := 0; l2 < BlockWidth; l2++ {
					sum += pa[l2] * pb[l2]
				}
			}
			c.Data[i*n+j] = sum
		}
	}
}

// nBlockedGEMM processes each row of C in BlockWidth-wide column blocks,
// carrying the full K reduction for a block before moving to the next one.
// Loop order i→j0→l→j2 with k in the middle; C is zeroed once up front
// because partial sums for a block accumulate across the whole k range.
func nBlockedGEMM(c, a, b *Matrix) {
	m, n, k := c.Rows, c.Cols, a.Cols
	c.Zero()
	for i := 0; i < m; i++ {
		for j0 := 0; j0 < n; j0 += BlockWidth {
			cRow := c.Data[i*n+j0 : i*n+j0+BlockWidth]
			for l := 0; l < k; l++ {
				ail := a.Data[i*k+l]
				bRow := b.Data[l*n+j0 : l*n+j0+BlockWidth]
				for j2 := 0; j2 < BlockWidth; j2++ {
					cRow[j2] += ail * bRow[j2]
				}
			}
		}
	}
}

// nBlockedInnerGEMM is the equivalent realization with the block sweep
// innermost: loop order i→l→j0→j2. Each C cell still accumulates its k terms
// in ascending order, so the sums match nBlockedGEMM exactly.
func nBlockedInnerGEMM(c, a, b *Matrix) {
	m, n, k := c.Rows, c.Cols, a.Cols
	c.Zero()
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			ail := a.Data[i*k+l]
			for j0 := 0; j0 < n; j0 += BlockWidth {
				cRow := c.Data[i*n+j0 : i*n+j0+BlockWidth]
				bRow := b.Data[l*n+j0 : l*n+j0+BlockWidth]
				for j2 := 0; j2 < BlockWidth; j2++ {
					cRow[j2] += ail * bRow[j2]
				}
			}
		}
	}
}

// tiledGEMM tiles both M and N into BlockWidth-wide blocks and runs the full
// K reduction inside each tile: loop order i0→j0→l→i2→j2. A BlockWidth²
// tile of C and the matching BlockWidth-wide slices of Aᵗ and B stay hot
// across the entire reduction before the next tile is touched.
func tiledGEMM(c, aT, b *Matrix) {
	m, n, k := c.Rows, c.Cols, aT.Rows
	c.Zero()
	for i0 := 0; i0 < m; i0 += BlockWidth {
		for j0 := 0; j0 < n; j0 += BlockWidth {
			for l := 0; l < k; l++ {
				bRow := b.Data[l*n+j0 : l*n+j0+BlockWidth]
				for i2 := 0; i2 < BlockWidth; i2++ {
					ali := aT.Data[l*m+i0+i2]
					cRow := c.Data[(i0+i2)*n+j0 : (i0+i2)*n+j0+BlockWidth]
					for j2 := 0; j2 < BlockWidth; j2++ {
						cRow[j2] += ali * bRow[j2]
					}
				}
			}
		}
	}
}
