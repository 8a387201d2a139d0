package notification

import (
	"context"
	"sync"
	"time"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"

	"go.uber.org/zap"
)

const (
	DefaultQueueSize = 100
	sendTimeout      = 15 * time.Second
)

type job struct {
	requestID string
	msg       Message
}

// Dispatcher hands messages to a Notifier on a background worker so callers
// never wait on delivery. When the queue is full the message is dropped.
type Dispatcher struct {
	notifier Notifier
	metrics  *metrics.Metrics
	queue    chan job

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(n Notifier, m *metrics.Metrics, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d := &Dispatcher{
		notifier: n,
		metrics:  m,
		queue:    make(chan job, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues msg and reports whether it was accepted.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (accepted bool) {
	defer func() {
		// send on a closed queue after shutdown
		if recover() != nil {
			accepted = false
		}
	}()

	select {
	case d.queue <- job{requestID: logger.RequestIDFrom(ctx), msg: msg}:
		return true
	default:
		logger.FromCtx(ctx).Warn("notification queue full, dropping message",
			zap.String("kind", string(msg.Kind)),
			zap.String("order_id", msg.OrderID),
		)
		d.metrics.NotificationDropped(string(msg.Kind))
		return false
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.queue) })
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for j := range d.queue {
		ctx := logger.WithRequestID(context.Background(), j.requestID)
		ctx, cancel := context.WithTimeout(ctx, sendTimeout)

		err := d.notifier.Notify(ctx, j.msg)
		cancel()

		d.metrics.ObserveNotification(string(j.msg.Kind), err)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to deliver notification",
				zap.String("kind", string(j.msg.Kind)),
				zap.String("order_id", j.msg.OrderID),
				zap.Error(err),
			)
		}
	}
}
