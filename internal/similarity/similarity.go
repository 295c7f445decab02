// Package similarity implements the vector comparison kernel used by the
// match scoring pipeline.
package similarity

import "math"

// Cosine returns the cosine similarity of a and b in [-1, 1]. Empty inputs,
// mismatched dimensionality or a zero-norm vector yield 0: similarity is
// treated as unknown, not as an error.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// float drift can push |sim| a hair past 1
	return math.Max(-1, math.Min(1, sim))
}
