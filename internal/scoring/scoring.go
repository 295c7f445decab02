// Package scoring synthesizes the overall compatibility score from the
// per-channel vector similarities.
package scoring

import (
	"math"

	"github.com/adit-wn/teamlane/internal/similarity"
)

// Weighting of the two channels plus a fixed floor. The floor keeps sparse
// but non-degenerate profiles above zero and is a tunable product choice,
// not an analytically derived constant.
const (
	BaseScore     = 20.0
	TechWeight    = 0.6
	ProfileWeight = 0.4
)

// Result carries the synthesized score together with the raw channel
// similarities that produced it.
type Result struct {
	TechSim    float64
	ProfileSim float64
	Overall    float64
}

// Synthesize combines the candidate and project channel vectors into one
// bounded 0-100 score. Missing channels contribute zero similarity.
func Synthesize(candTech, candProfile, projTech, projProfile []float32) Result {
	techSim := similarity.Cosine(candTech, projTech)
	profileSim := similarity.Cosine(candProfile, projProfile)

	overall := BaseScore + (techSim*TechWeight+profileSim*ProfileWeight)*100
	overall = math.Max(0, math.Min(100, overall))

	return Result{
		TechSim:    techSim,
		ProfileSim: profileSim,
		Overall:    math.Round(overall*100) / 100,
	}
}

// SubScores derives the three dimension scores deterministically from the
// channel similarities. Used as the fallback when the explanation provider
// cannot supply its own assessment, so a degraded record never pairs a
// nonzero overall with all-zero dimensions.
func SubScores(r Result) (tech, disposition, experience int) {
	tech = clampInt(int(math.Round(r.TechSim * 100)))
	disposition = clampInt(int(math.Round(r.ProfileSim * 100)))
	experience = disposition
	return tech, disposition, experience
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
