package scoring

import (
	"math"
	"testing"
)

// unitAt returns a 2D unit vector whose cosine against (1, 0) is exactly sim.
func unitAt(sim float64) []float32 {
	return []float32{float32(sim), float32(math.Sqrt(1 - sim*sim))}
}

var axis = []float32{1, 0}

func TestSynthesizeWeightedFormula(t *testing.T) {
	// techSim 0.8, profileSim 0.5 -> 20 + (0.8*0.6 + 0.5*0.4)*100 = 88
	res := Synthesize(axis, axis, unitAt(0.8), unitAt(0.5))

	if math.Abs(res.TechSim-0.8) > 1e-6 {
		t.Fatalf("techSim = %v, want 0.8", res.TechSim)
	}
	if math.Abs(res.ProfileSim-0.5) > 1e-6 {
		t.Fatalf("profileSim = %v, want 0.5", res.ProfileSim)
	}
	if res.Overall != 88.0 {
		t.Fatalf("overall = %v, want 88.0", res.Overall)
	}
}

func TestSynthesizeBounds(t *testing.T) {
	// perfect similarity saturates at 100
	res := Synthesize(axis, axis, axis, axis)
	if res.Overall != 100 {
		t.Fatalf("saturated overall = %v, want 100", res.Overall)
	}

	// fully opposed vectors floor at 0
	neg := []float32{-1, 0}
	res = Synthesize(axis, axis, neg, neg)
	if res.Overall != 0 {
		t.Fatalf("floored overall = %v, want 0", res.Overall)
	}
}

func TestSynthesizeRangeProperty(t *testing.T) {
	for sim := -1.0; sim <= 1.0; sim += 0.125 {
		res := Synthesize(axis, axis, unitAt(sim), unitAt(-sim))
		if res.Overall < 0 || res.Overall > 100 {
			t.Fatalf("sim %v: overall %v out of [0, 100]", sim, res.Overall)
		}
	}
}

func TestSynthesizeMissingChannels(t *testing.T) {
	// empty tech channel contributes zero similarity, not an error
	res := Synthesize(nil, axis, nil, axis)
	want := BaseScore + ProfileWeight*100
	if res.Overall != want {
		t.Fatalf("overall = %v, want %v", res.Overall, want)
	}

	// everything empty degenerates to the base floor
	res = Synthesize(nil, nil, nil, nil)
	if res.Overall != BaseScore {
		t.Fatalf("overall = %v, want %v", res.Overall, BaseScore)
	}
}

func TestSubScores(t *testing.T) {
	tech, disp, exp := SubScores(Result{TechSim: 0.8, ProfileSim: 0.5})
	if tech != 80 || disp != 50 || exp != 50 {
		t.Fatalf("got (%d, %d, %d), want (80, 50, 50)", tech, disp, exp)
	}

	// negative similarity clamps to zero
	tech, disp, exp = SubScores(Result{TechSim: -0.4, ProfileSim: -1})
	if tech != 0 || disp != 0 || exp != 0 {
		t.Fatalf("got (%d, %d, %d), want zeros", tech, disp, exp)
	}
}
