package sgemm

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() *Config {
	return &Config{
		M:       32,
		K:       32,
		N:       32,
		Kernels: Kernels(),
		MinTime: 10 * time.Millisecond,
		Warmup:  1,
		Seed:    42,
	}
}

func TestRun(t *testing.T) {
	cfg := smallConfig()
	results, err := Run(cfg)
	require.NoError(t, err)
	require.Len(t, results, len(cfg.Kernels))

	for i, r := range results {
		assert.Equal(t, cfg.Kernels[i], r.Kernel)
		assert.Positive(t, r.Iterations)
		assert.Positive(t, r.GFLOPS)
		assert.Positive(t, r.Duration)
	}
}

// TestRunReproducible checks that two runs with the same seed operate on
// identical operands: verification outcomes cannot depend on global state.
func TestRunReproducible(t *testing.T) {
	a1 := NewRandomGenerator(42).UniformMatrix(32, 32, 0, 1)
	a2 := NewRandomGenerator(42).UniformMatrix(32, 32, 0, 1)
	assert.Equal(t, a1.Data, a2.Data)
}

// TestRunZeroMinTime checks that a zero-valued Config still produces a
// measurement: every kernel gets at least one timed iteration.
func TestRunZeroMinTime(t *testing.T) {
	results, err := Run(&Config{M: 16, K: 16, N: 16, Kernels: []Kernel{Baseline}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Iterations, 1)
	assert.Positive(t, results[0].Duration)
}

func TestRunUnalignedDimensions(t *testing.T) {
	cfg := smallConfig()
	cfg.N = 30 // violates the N-blocked and tiled preconditions
	_, err := Run(cfg)
	assert.ErrorIs(t, err, ErrBlockAlign)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4096, cfg.M)
	assert.Equal(t, 1024, cfg.K)
	assert.Equal(t, 128, cfg.N)
	assert.Equal(t, Kernels(), cfg.Kernels)
	assert.Positive(t, cfg.Warmup)
}

func TestPrintResults(t *testing.T) {
	results := []Result{
		{Kernel: Baseline, M: 32, K: 32, N: 32, Duration: time.Millisecond, GFLOPS: 1.5, Iterations: 10},
		{Kernel: Tiled, M: 32, K: 32, N: 32, Duration: time.Millisecond / 2, GFLOPS: 3.0, Iterations: 20},
	}
	var buf bytes.Buffer
	require.NoError(t, PrintResults(&buf, results))
	assert.Contains(t, buf.String(), "Baseline")
	assert.Contains(t, buf.String(), "Tiled")
	assert.Contains(t, buf.String(), "32x32x32")
}

func TestBestAndSpeedup(t *testing.T) {
	results := []Result{
		{Kernel: Baseline, GFLOPS: 2},
		{Kernel: StripMined, GFLOPS: 3},
		{Kernel: Tiled, GFLOPS: 6},
	}

	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, Tiled, best.Kernel)

	speedup, ok := Speedup(results, Tiled)
	require.True(t, ok)
	assert.InDelta(t, 3.0, speedup, 1e-9)

	_, ok = Best(nil)
	assert.False(t, ok)
	_, ok = Speedup(results, NBlocked)
	assert.False(t, ok)
}

func TestResultString(t *testing.T) {
	r := Result{Kernel: Baseline, M: 4096, K: 1024, N: 128, Duration: time.Second, GFLOPS: 1.07, Iterations: 1}
	s := r.String()
	assert.Contains(t, s, "Baseline")
	assert.Contains(t, s, "GFLOPS")
}

func BenchmarkKernels(b *testing.B) {
	rng := NewRandomGenerator(42)
	const size = 256
	ma := rng.UniformMatrix(size, size, 0, 1)
	mb := rng.UniformMatrix(size, size, 0, 1)
	out := NewMatrix(size, size)

	for _, kernel := range Kernels() {
		b.Run(fmt.Sprintf("%s-%d", kernel, size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := MultiplyInto(out, ma, mb, kernel); err != nil {
					b.Fatal(err)
				}
			}
			b.SetBytes(int64(size * size * 4))
		})
	}
}

func BenchmarkStrassen(b *testing.B) {
	rng := NewRandomGenerator(42)
	const size = 256
	ma := rng.NormalMatrix(size, size, 0, 0.1)
	mb := rng.NormalMatrix(size, size, 0, 0.1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Strassen(ma, mb); err != nil {
			b.Fatal(err)
		}
	}
}
