// Package cache holds short-lived JSON snapshots in Redis, currently the
// assembled recommendation lists per candidate.
package cache

import (
	"context"
	"time"
)

// RecommendationTTL bounds how stale a served recommendation list can be;
// profile changes drop the snapshot explicitly before the TTL fires.
const RecommendationTTL = 10 * time.Minute

const recommendationPrefix = "rec:candidate:"

func RecommendationKey(candidateID string) string {
	return recommendationPrefix + candidateID
}

// RecommendationKeyPattern matches every candidate's snapshot. Project
// changes invalidate with it, since scores reference the changed project
// across an unknown set of candidates.
func RecommendationKeyPattern() string {
	return recommendationPrefix + "*"
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DelMatching(ctx context.Context, pattern string) error
}
