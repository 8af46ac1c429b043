package sgemm

import "math/rand"

// RandomGenerator produces reproducible test matrices. The core never
// touches process-wide random state: callers that want deterministic runs
// pass a fixed seed.
type RandomGenerator struct {
	*rand.Rand
}

// NewRandomGenerator creates a RandomGenerator with the given seed.
func NewRandomGenerator(seed int64) RandomGenerator {
	return RandomGenerator{rand.New(rand.NewSource(seed))}
}

// UniformMatrix makes a matrix filled with uniform random floats in [low, high).
func (rng RandomGenerator) UniformMatrix(rows, cols int, low, high float32) *Matrix {
	m := NewMatrix(rows, cols)
	scale := high - low
	for i := range m.Data {
		m.Data[i] = rng.Float32()*scale + low
	}
	return m
}

// NormalMatrix makes a matrix filled with normal random floats.
func (rng RandomGenerator) NormalMatrix(rows, cols int, mean, stdDev float32) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = float32(rng.NormFloat64())*stdDev + mean
	}
	return m
}
