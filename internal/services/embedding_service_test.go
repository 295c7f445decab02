package services

import (
	"context"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/providers/embedding"
)

type providerStub struct {
	calls int
	dim   int
	model string
	err   error
}

func (p *providerStub) Embed(_ context.Context, text string) ([]float32, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	vec := make([]float32, p.dim)
	vec[0] = float32(len(text)) // distinguishable, content does not matter here
	return vec, nil
}

func (p *providerStub) Dimension() int { return p.dim }
func (p *providerStub) Model() string  { return p.model }
func (p *providerStub) Close() error   { return nil }

func TestCandidateVectorsEmbedsAndStores(t *testing.T) {
	provider := &providerStub{dim: 4, model: "stub-v1"}
	repo := newEmbeddingStore()
	svc := NewEmbeddingService(provider, repo, time.Second, quietLog())

	c := testCandidate("c1")
	tech, profile, err := svc.CandidateVectors(context.Background(), c)
	if err != nil {
		t.Fatalf("CandidateVectors: %v", err)
	}
	if len(tech) != 4 || len(profile) != 4 {
		t.Errorf("vector lengths = %d/%d, want 4/4", len(tech), len(profile))
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (one per channel)", provider.calls)
	}

	row, ok := repo.cand["c1"]
	if !ok {
		t.Fatal("embedding row was not stored")
	}
	if row.Model != "stub-v1" {
		t.Errorf("stored model = %q, want stub-v1", row.Model)
	}
}

func TestCandidateVectorsReusesFreshRow(t *testing.T) {
	provider := &providerStub{dim: 4, model: "stub-v1"}
	repo := newEmbeddingStore()
	svc := NewEmbeddingService(provider, repo, time.Second, quietLog())

	c := testCandidate("c1")
	repo.cand["c1"] = &models.CandidateEmbedding{
		CandidateID:   "c1",
		TechVector:    pgvector.NewVector([]float32{1, 0, 0, 0}),
		ProfileVector: pgvector.NewVector([]float32{0, 1, 0, 0}),
		Model:         "stub-v1",
		UpdatedAt:     c.UpdatedAt.Add(time.Minute),
	}

	tech, _, err := svc.CandidateVectors(context.Background(), c)
	if err != nil {
		t.Fatalf("CandidateVectors: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0 for a fresh row", provider.calls)
	}
	if tech[0] != 1 {
		t.Errorf("reused vector diverged: %v", tech)
	}
}

func TestCandidateVectorsReembedsStaleRow(t *testing.T) {
	provider := &providerStub{dim: 4, model: "stub-v1"}
	repo := newEmbeddingStore()
	svc := NewEmbeddingService(provider, repo, time.Second, quietLog())

	c := testCandidate("c1")

	// Older than the profile text.
	repo.cand["c1"] = &models.CandidateEmbedding{
		CandidateID: "c1",
		Model:       "stub-v1",
		UpdatedAt:   c.UpdatedAt.Add(-time.Hour),
	}
	if _, _, err := svc.CandidateVectors(context.Background(), c); err != nil {
		t.Fatalf("stale row: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 after staleness", provider.calls)
	}

	// Same age but written by a different model family.
	provider.calls = 0
	repo.cand["c1"].Model = "other-model"
	repo.cand["c1"].UpdatedAt = c.UpdatedAt.Add(time.Minute)
	if _, _, err := svc.CandidateVectors(context.Background(), c); err != nil {
		t.Fatalf("model mismatch: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 after model change", provider.calls)
	}
}

func TestProjectVectorsEmptyChannelSkipsProvider(t *testing.T) {
	provider := &providerStub{dim: 4, model: "stub-v1"}
	repo := newEmbeddingStore()
	svc := NewEmbeddingService(provider, repo, time.Second, quietLog())

	p := testProject("p1", "Side project")
	p.TechStack = nil // no tech channel text

	tech, profile, err := svc.ProjectVectors(context.Background(), p)
	if err != nil {
		t.Fatalf("ProjectVectors: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (profile channel only)", provider.calls)
	}
	for _, v := range tech {
		if v != 0 {
			t.Fatalf("empty channel should be a zero vector, got %v", tech)
		}
	}
	if len(profile) != 4 {
		t.Errorf("profile vector length = %d, want 4", len(profile))
	}
}

func TestCandidateVectorsPropagatesOutage(t *testing.T) {
	provider := &providerStub{dim: 4, model: "stub-v1", err: embedding.ErrUnavailable}
	repo := newEmbeddingStore()
	svc := NewEmbeddingService(provider, repo, time.Second, quietLog())

	_, _, err := svc.CandidateVectors(context.Background(), testCandidate("c1"))
	if err == nil {
		t.Fatal("expected an error from the provider outage")
	}
	if len(repo.cand) != 0 {
		t.Error("no row should be stored on failure")
	}
}
