package sgemm

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Config configures a benchmark run.
type Config struct {
	M, K, N  int           // product dimensions: A is M×K, B is K×N
	Kernels  []Kernel      // kernels to benchmark
	MinTime  time.Duration // minimum time to run each kernel
	Warmup   int           // number of untimed warmup runs per kernel
	Seed     int64         // seed for the random operands
	Progress bool          // render a progress bar over kernels
}

// DefaultConfig returns the stock configuration: the classic tall-A shape
// with every kernel enabled.
func DefaultConfig() *Config {
	return &Config{
		M:       4096,
		K:       1024,
		N:       128,
		Kernels: Kernels(),
		MinTime: time.Second,
		Warmup:  2,
		Seed:    42,
	}
}

// Result holds the timing of a single kernel.
type Result struct {
	Kernel     Kernel
	M, K, N    int
	Duration   time.Duration // wall time per multiplication
	GFLOPS     float64
	Iterations int
}

// String returns a formatted one-line representation of the result.
func (r Result) String() string {
	return fmt.Sprintf("%-14s | %4dx%4dx%4d | %12v | %8.2f GFLOPS | %d iters",
		r.Kernel, r.M, r.K, r.N, r.Duration, r.GFLOPS, r.Iterations)
}

// Run generates seeded random operands, checks every kernel's output against
// the baseline, then times each kernel. A verification failure aborts the
// whole run: a diverging kernel is a correctness defect, and its timing
// would be meaningless.
func Run(cfg *Config) ([]Result, error) {
	rng := NewRandomGenerator(cfg.Seed)
	a := rng.UniformMatrix(cfg.M, cfg.K, 0, 1)
	b := rng.UniformMatrix(cfg.K, cfg.N, 0, 1)
	logger.Info("benchmark run",
		zap.Int("m", cfg.M), zap.Int("k", cfg.K), zap.Int("n", cfg.N),
		zap.Int64("seed", cfg.Seed), zap.Int("kernels", len(cfg.Kernels)))

	base, err := Multiply(a, b, Baseline)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.Default(int64(len(cfg.Kernels)), "kernels")
	}

	results := make([]Result, 0, len(cfg.Kernels))
	out := NewMatrix(cfg.M, cfg.N)
	for _, kernel := range cfg.Kernels {
		if err := MultiplyInto(out, a, b, kernel); err != nil {
			return nil, err
		}
		if !out.EqualEpsilon(base, Epsilon) {
			logger.Error("kernel diverged from baseline",
				zap.Stringer("kernel", kernel),
				zap.Float32("max_abs_diff", MaxAbsDiff(out, base)))
			return nil, fmt.Errorf("%s: %w", kernel, ErrVerify)
		}
		results = append(results, timeKernel(out, a, b, kernel, cfg))
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return results, nil
}

// timeKernel runs warmups, then repeats the multiplication until MinTime has
// elapsed and reports the mean wall time per call. At least one iteration
// always runs, so a zero MinTime measures a single call.
func timeKernel(out, a, b *Matrix, kernel Kernel, cfg *Config) Result {
	for i := 0; i < cfg.Warmup; i++ {
		_ = MultiplyInto(out, a, b, kernel)
	}
	runtime.GC()

	iterations := 0
	start := time.Now()
	for iterations == 0 || time.Since(start) < cfg.MinTime {
		_ = MultiplyInto(out, a, b, kernel)
		iterations++
	}
	elapsed := time.Since(start)

	// A product of (M×K)·(K×N) costs 2·M·K·N FLOPs: one multiply and one
	// add per reduction term.
	flops := 2 * float64(cfg.M) * float64(cfg.K) * float64(cfg.N) * float64(iterations)
	return Result{
		Kernel:     kernel,
		M:          cfg.M,
		K:          cfg.K,
		N:          cfg.N,
		Duration:   elapsed / time.Duration(iterations),
		GFLOPS:     flops / elapsed.Seconds() / 1e9,
		Iterations: iterations,
	}
}

// PrintResults renders benchmark results as a table.
func PrintResults(w io.Writer, results []Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Kernel", "Dims (MxKxN)", "Time/Op", "GFLOPS", "Iterations")
	for _, r := range results {
		if err := table.Append([]string{
			r.Kernel.String(),
			fmt.Sprintf("%dx%dx%d", r.M, r.K, r.N),
			r.Duration.String(),
			fmt.Sprintf("%.2f", r.GFLOPS),
			strconv.Itoa(r.Iterations),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// Best returns the result with the highest throughput.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	return lo.MaxBy(results, func(a, b Result) bool {
		return a.GFLOPS > b.GFLOPS
	}), true
}

// Speedup returns the throughput ratio of a kernel relative to the baseline
// within the same result set.
func Speedup(results []Result, kernel Kernel) (float64, bool) {
	baseline, okBase := lo.Find(results, func(r Result) bool { return r.Kernel == Baseline })
	target, okTarget := lo.Find(results, func(r Result) bool { return r.Kernel == kernel })
	if !okBase || !okTarget || baseline.GFLOPS == 0 {
		return 0, false
	}
	return target.GFLOPS / baseline.GFLOPS, true
}
