package insight

import (
	"context"
	"reflect"
	"sync"
	"time"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Insight is the most recent generated text and when it arrived.
type Insight struct {
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	Pending   bool      `json:"pending"`
}

// Refresher runs generation in the background so the analytics endpoint
// never waits on the model. The latest completed result wins.
type Refresher struct {
	gen     Generator
	limiter *rate.Limiter
	metrics *metrics.Metrics
	timeout time.Duration
	now     func() time.Time

	mu        sync.Mutex
	latest    Insight
	requested *analytics.Stats
	inflight  int
	wg        sync.WaitGroup
	closed    bool
}

// NewRefresher allows one generation per interval with a burst of one.
func NewRefresher(gen Generator, interval time.Duration, m *metrics.Metrics) *Refresher {
	return &Refresher{
		gen:     gen,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		metrics: m,
		timeout: 45 * time.Second,
		now:     time.Now,
		latest:  Insight{Text: PlaceholderText},
	}
}

// Latest returns the current text and, when the stats changed since the last
// request, starts a new generation if the limiter allows it.
func (r *Refresher) Latest(ctx context.Context, stats analytics.Stats) Insight {
	log := logger.FromCtx(ctx).With(zap.String("layer", "insight"))

	r.mu.Lock()
	defer r.mu.Unlock()

	if stats.TotalOrders == 0 {
		r.metrics.ObserveInsight("skipped")
		return Insight{Text: PlaceholderText}
	}

	if r.closed || (r.requested != nil && reflect.DeepEqual(*r.requested, stats)) {
		return r.snapshot()
	}

	if !r.limiter.Allow() {
		log.Debug("insight refresh rate limited")
		r.metrics.ObserveInsight("skipped")
		return r.snapshot()
	}

	snap := stats
	r.requested = &snap
	r.inflight++
	r.wg.Add(1)

	requestID := logger.RequestIDFrom(ctx)
	go r.run(requestID, snap)

	return r.snapshot()
}

func (r *Refresher) run(requestID string, stats analytics.Stats) {
	defer r.wg.Done()

	ctx, cancel := context.WithTimeout(logger.WithRequestID(context.Background(), requestID), r.timeout)
	defer cancel()

	text := r.gen.Generate(ctx, stats)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	r.latest = Insight{Text: text, UpdatedAt: r.now()}
}

func (r *Refresher) snapshot() Insight {
	out := r.latest
	out.Pending = r.inflight > 0
	return out
}

// Close stops accepting refreshes and waits for running generations.
func (r *Refresher) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
