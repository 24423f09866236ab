package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_PublishReachesRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(zap.NewNop())
	go h.Run(ctx)

	a := &Client{hub: h, send: make(chan []byte, 4)}
	b := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	id := uuid.New()
	h.Publish(ctx, job.Event{Type: job.EventApproved, JobID: id, At: time.Unix(0, 0).UTC()})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var got map[string]any
			require.NoError(t, json.Unmarshal(msg, &got))
			assert.Equal(t, "job_approved", got["type"])
			assert.Equal(t, id.String(), got["job_id"])
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHub_DropsSlowClientAndClosesOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() { h.Run(ctx); close(done) }()

	slow := &Client{hub: h, send: make(chan []byte)}
	fast := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(slow)
	h.Register(fast)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.Broadcast([]byte(`{}`))
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-slow.send
	assert.False(t, open)

	cancel()
	<-done
	assert.Equal(t, 0, h.ClientCount())
	<-fast.send
	_, open = <-fast.send
	assert.False(t, open)
}

func TestNilHubIsSafe(t *testing.T) {
	var h *Hub
	h.Publish(context.Background(), job.Event{Type: job.EventDeleted})
	h.Broadcast([]byte("x"))
	assert.Equal(t, 0, h.ClientCount())
}
