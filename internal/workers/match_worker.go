package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adit-wn/teamlane/internal/services"
)

// MatchWorkerPool consumes precompute tasks from the match stream and runs
// the same per-pair computation the request path uses. Progress is published
// over pub/sub so clients can follow a sweep live.
type MatchWorkerPool struct {
	Redis      *redis.Client
	Matches    services.MatchService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *MatchWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Matches == nil {
		return errors.New("MatchWorkerPool missing dependency: Redis/Matches must be set")
	}
	if p.Stream == "" {
		p.Stream = services.MatchStream
	}
	if p.Group == "" {
		p.Group = "match-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *MatchWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

// ProgressChannel is the pub/sub channel carrying status updates for one
// sweep, e.g. match:candidate:<id>:status.
func ProgressChannel(kind, id string) string {
	return "match:" + kind + ":" + id + ":status"
}

type progressMsg struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Status  string `json:"status"`
	Done    int    `json:"done,omitempty"`
	Message string `json:"message,omitempty"`
}

func (p *MatchWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	kind := getStr("kind")
	candidateID := getStr("candidate_id")
	projectID := getStr("project_id")

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"kind":         kind,
		"candidate_id": candidateID,
		"project_id":   projectID,
	})

	var (
		subject string
		done    int
		err     error
	)

	switch kind {
	case services.TaskKindCandidate:
		if candidateID == "" {
			return
		}
		subject = candidateID
		p.publish(ctx, kind, subject, progressMsg{Type: "status", Kind: kind, ID: subject, Status: "processing"})
		done, err = p.Matches.PrecomputeForCandidate(ctx, candidateID)

	case services.TaskKindProject:
		if projectID == "" {
			return
		}
		subject = projectID
		p.publish(ctx, kind, subject, progressMsg{Type: "status", Kind: kind, ID: subject, Status: "processing"})
		done, err = p.Matches.PrecomputeForProject(ctx, projectID)

	case services.TaskKindPair:
		if candidateID == "" || projectID == "" {
			return
		}
		kind = services.TaskKindCandidate // progress is tracked on the candidate side
		subject = candidateID
		_, err = p.Matches.GetOrCreateMatch(ctx, candidateID, projectID)
		done = 1

	default:
		log.Warn("unknown task kind")
		return
	}

	if err != nil {
		log.WithError(err).Error("precompute task failed")
		p.publish(ctx, kind, subject, progressMsg{Type: "status", Kind: kind, ID: subject, Status: "failed", Done: done, Message: "precompute failed"})
		return
	}

	log.WithField("done", done).Info("precompute task finished")
	p.publish(ctx, kind, subject, progressMsg{Type: "status", Kind: kind, ID: subject, Status: "done", Done: done})
}

func (p *MatchWorkerPool) publish(ctx context.Context, kind, id string, msg progressMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = p.Redis.Publish(ctx, ProgressChannel(kind, id), string(b)).Err()
}
