// Package explain generates the natural-language rationale and the three
// dimension sub-scores for a computed match.
package explain

import (
	"context"
	"errors"

	"github.com/adit-wn/teamlane/internal/models"
)

// ErrUnavailable covers provider outages; ErrMalformed covers responses that
// could not be decoded into the expected structure. Both are non-fatal for
// callers, which fall back to a fixed payload.
var (
	ErrUnavailable = errors.New("explanation unavailable")
	ErrMalformed   = errors.New("malformed explanation response")
)

// Request carries the structured comparison context sent to the model.
type Request struct {
	CandidateSummary map[string]any
	ProjectSummary   map[string]any
	OverallScore     float64
}

// Result is the provider's assessment: integer dimension scores plus the
// versioned rationale payload.
type Result struct {
	TechScore        int
	DispositionScore int
	ExperienceScore  int
	Payload          models.ExplanationPayload
}

type Provider interface {
	Explain(ctx context.Context, req Request) (*Result, error)
	Close() error
}
