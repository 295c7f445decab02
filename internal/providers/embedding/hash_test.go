package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h := NewHash(64)

	a, err := h.Embed(context.Background(), "go postgres redis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := h.Embed(context.Background(), "go postgres redis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text must produce the same vector")
		}
	}
}

func TestHashUnitNorm(t *testing.T) {
	h := NewHash(64)

	vec, err := h.Embed(context.Background(), "semantic matching engine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != h.Dimension() {
		t.Fatalf("len = %d, want %d", len(vec), h.Dimension())
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Fatalf("norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestHashEmptyText(t *testing.T) {
	h := NewHash(64)
	if _, err := h.Embed(context.Background(), "   "); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
