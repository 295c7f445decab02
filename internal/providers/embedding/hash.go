package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Hash is a deterministic local embedder used when Vertex credentials are
// absent (development, CI). Tokens are hashed into buckets and the vector is
// L2-normalized, so identical text always maps to the same unit vector and
// overlapping token sets score higher than disjoint ones. Not semantically
// meaningful; it only keeps the pipeline runnable end to end.
type Hash struct {
	dim int
}

func NewHash(dim int) *Hash {
	if dim <= 0 {
		dim = 768
	}
	return &Hash{dim: dim}
}

func (h *Hash) Close() error   { return nil }
func (h *Hash) Dimension() int { return h.dim }
func (h *Hash) Model() string  { return "local-hash" }

func (h *Hash) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return nil, ErrUnavailable
	}

	vec := make([]float32, h.dim)
	for _, tok := range tokens {
		f := fnv.New64a()
		_, _ = f.Write([]byte(tok))
		sum := f.Sum64()

		idx := int(sum % uint64(h.dim))
		// second hash bit picks the sign to spread collisions
		if (sum>>63)&1 == 1 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return nil, ErrUnavailable
	}
	inv := 1 / math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) * inv)
	}
	return vec, nil
}
