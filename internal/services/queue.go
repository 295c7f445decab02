package services

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Match precompute task stream. Workers consume it through a consumer group;
// producers only ever XAdd.
const (
	MatchStream = "match:stream"

	TaskKindCandidate = "candidate"
	TaskKindProject   = "project"
	TaskKindPair      = "pair"
)

// MatchEnqueuer pushes precompute work out of the request path.
type MatchEnqueuer interface {
	EnqueueCandidate(ctx context.Context, candidateID string) error
	EnqueueProject(ctx context.Context, projectID string) error
	EnqueuePair(ctx context.Context, candidateID, projectID string) error
}

type RedisMatchQueue struct {
	rdb    *redis.Client
	stream string
}

func NewRedisMatchQueue(rdb *redis.Client) *RedisMatchQueue {
	return &RedisMatchQueue{rdb: rdb, stream: MatchStream}
}

func (q *RedisMatchQueue) EnqueueCandidate(ctx context.Context, candidateID string) error {
	return q.add(ctx, map[string]any{"kind": TaskKindCandidate, "candidate_id": candidateID})
}

func (q *RedisMatchQueue) EnqueueProject(ctx context.Context, projectID string) error {
	return q.add(ctx, map[string]any{"kind": TaskKindProject, "project_id": projectID})
}

func (q *RedisMatchQueue) EnqueuePair(ctx context.Context, candidateID, projectID string) error {
	return q.add(ctx, map[string]any{"kind": TaskKindPair, "candidate_id": candidateID, "project_id": projectID})
}

func (q *RedisMatchQueue) add(ctx context.Context, values map[string]any) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{Stream: q.stream, Values: values}).Err()
}
