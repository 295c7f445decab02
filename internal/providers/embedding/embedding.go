package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable signals that no vector could be produced, either because the
// text is empty or the backing model failed. Callers decide whether to degrade
// or propagate.
var ErrUnavailable = errors.New("embedding unavailable")

// Provider converts text into a fixed-length vector. Implementations must be
// idempotent for identical text and model version.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Model() string
	Close() error
}
