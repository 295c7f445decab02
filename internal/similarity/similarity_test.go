package similarity

import (
	"math"
	"testing"
)

func TestCosineBounds(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}},
		{"opposite", []float32{1, 0}, []float32{-1, 0}},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}},
		{"arbitrary", []float32{0.3, -0.7, 2.1}, []float32{-1.4, 0.2, 0.9}},
	}

	for _, tc := range cases {
		sim := Cosine(tc.a, tc.b)
		if sim < -1 || sim > 1 {
			t.Errorf("%s: similarity %v out of [-1, 1]", tc.name, sim)
		}
	}
}

func TestCosineIdentical(t *testing.T) {
	sim := Cosine([]float32{1, 2, 3}, []float32{1, 2, 3})
	if math.Abs(sim-1) > 1e-9 {
		t.Fatalf("expected 1, got %v", sim)
	}
}

func TestCosineOpposite(t *testing.T) {
	sim := Cosine([]float32{2, 0, 0}, []float32{-5, 0, 0})
	if math.Abs(sim+1) > 1e-9 {
		t.Fatalf("expected -1, got %v", sim)
	}
}

func TestCosineUnknownInputs(t *testing.T) {
	zero := make([]float32, 3)
	cases := []struct {
		name string
		a, b []float32
	}{
		{"nil a", nil, []float32{1, 2, 3}},
		{"nil b", []float32{1, 2, 3}, nil},
		{"both nil", nil, nil},
		{"zero vector", []float32{1, 2, 3}, zero},
		{"both zero", zero, zero},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
	}

	for _, tc := range cases {
		if sim := Cosine(tc.a, tc.b); sim != 0 {
			t.Errorf("%s: expected 0, got %v", tc.name, sim)
		}
	}
}

func TestCosineScaleInvariant(t *testing.T) {
	a := []float32{0.1, 0.5, 0.9}
	b := []float32{0.4, 0.2, 0.7}
	scaled := []float32{4, 2, 7}

	if math.Abs(Cosine(a, b)-Cosine(a, scaled)) > 1e-6 {
		t.Fatal("cosine should be independent of magnitude")
	}
}
