package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu         sync.Mutex
	got        []Message
	requestIDs []string
	err        error
	block      chan struct{}
}

func (r *recordingNotifier) Notify(ctx context.Context, msg Message) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, msg)
	r.requestIDs = append(r.requestIDs, logger.RequestIDFrom(ctx))
	return r.err
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(n, metrics.New(), 10)

	ctx := logger.WithRequestID(context.Background(), "req-1")
	for _, id := range []string{"RNI-1", "RNI-2", "RNI-3"} {
		assert.True(t, d.Dispatch(ctx, Message{Kind: KindOrderConfirmation, OrderID: id}))
	}
	d.Close()

	assert.Len(t, n.got, 3)
	assert.Equal(t, "RNI-1", n.got[0].OrderID)
	assert.Equal(t, "RNI-3", n.got[2].OrderID)
	assert.Equal(t, "req-1", n.requestIDs[0])
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	n := &recordingNotifier{err: errors.New("whatsapp gateway down")}
	d := NewDispatcher(n, nil, 1)

	assert.True(t, d.Dispatch(context.Background(), Message{Kind: KindPaymentConfirmation, OrderID: "RNI-9"}))
	d.Close()

	assert.Len(t, n.got, 1)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	n := &recordingNotifier{block: make(chan struct{})}
	d := NewDispatcher(n, nil, 1)

	// The worker takes the first message and blocks; the second fills the
	// queue, so the third has nowhere to go.
	accepted := 0
	for i := 0; i < 3; i++ {
		if d.Dispatch(context.Background(), Message{OrderID: "RNI-X"}) {
			accepted++
		}
	}
	close(n.block)
	d.Close()

	assert.GreaterOrEqual(t, accepted, 1)
	assert.LessOrEqual(t, accepted, 2)
	assert.Len(t, n.got, accepted)
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{}, nil, 1)
	d.Close()

	assert.False(t, d.Dispatch(context.Background(), Message{OrderID: "RNI-1"}))
}
