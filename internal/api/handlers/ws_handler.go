package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/adit-wn/teamlane/internal/services"
	"github.com/adit-wn/teamlane/internal/workers"
)

// WSHandler streams precompute progress to the client: worker pub/sub
// messages are forwarded verbatim over the websocket.
type WSHandler struct {
	redis    *redis.Client
	queue    services.MatchEnqueuer
	upgrader websocket.Upgrader
}

func NewWSHandler(rdb *redis.Client, queue services.MatchEnqueuer, allowedOrigin string) *WSHandler {
	return &WSHandler{
		redis: rdb,
		queue: queue,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigin),
		},
	}
}

// checkOrigin allows any origin when none is configured; the deployment
// proxy owns origin enforcement in that case.
func checkOrigin(allowed string) func(*http.Request) bool {
	if allowed == "" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

func (h *WSHandler) MatchProgress(c *gin.Context) {
	candidateID, ok := requireCandidateID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote a response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, workers.ProgressChannel(services.TaskKindCandidate, candidateID))
	defer pubsub.Close()

	// reader drains client frames so close handshakes work; any inbound
	// text message re-enqueues a precompute sweep
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			mt, _, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			if mt == websocket.TextMessage && h.queue != nil {
				_ = h.queue.EnqueueCandidate(ctx, candidateID)
			}
		}
	}()

	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case <-ping.C:
			if err := wc.ping(); err != nil {
				return
			}
		case msg, open := <-ch:
			if !open {
				return
			}
			if err := wc.writeText([]byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
