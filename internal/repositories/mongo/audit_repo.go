package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchAudit is one append-only record per match computation: which providers
// ran, how long they took and how the computation ended.
type MatchAudit struct {
	CandidateID string    `bson:"candidate_id"`
	ProjectID   string    `bson:"project_id"`
	Outcome     string    `bson:"outcome"` // computed | degraded | insufficient
	Score       float64   `bson:"score"`
	TechSim     float64   `bson:"tech_sim"`
	ProfileSim  float64   `bson:"profile_sim"`
	EmbedMS     int64     `bson:"embed_ms"`
	ExplainMS   int64     `bson:"explain_ms"`
	EmbedModel  string    `bson:"embed_model,omitempty"`
	EvaluatedAt time.Time `bson:"evaluated_at"`
}

type AuditRepository interface {
	Insert(ctx context.Context, a *MatchAudit) error
	ListByCandidate(ctx context.Context, candidateID string, limit int64) ([]MatchAudit, error)
}

type auditRepo struct {
	col *mongo.Collection
}

func NewAuditRepo(db *mongo.Database) AuditRepository {
	return &auditRepo{col: db.Collection("match_audit")}
}

func (r *auditRepo) Insert(ctx context.Context, a *MatchAudit) error {
	if a.EvaluatedAt.IsZero() {
		a.EvaluatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *auditRepo) ListByCandidate(ctx context.Context, candidateID string, limit int64) ([]MatchAudit, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{"candidate_id": candidateID},
		options.Find().
			SetSort(bson.D{{Key: "evaluated_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []MatchAudit
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
