package cart

import (
	"sync"
	"time"
)

// DefaultIdleTTL is how long an untouched cart survives before Sweep drops it.
const DefaultIdleTTL = 24 * time.Hour

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

// Registry keeps one cart per client cart id, in memory only. A restart loses
// every cart.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		carts: make(map[string]*entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cart for key, creating an empty one on first use.
func (r *Registry) Get(key string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.carts[key]
	if !ok {
		e = &entry{cart: New()}
		r.carts[key] = e
	}
	e.lastSeen = r.now()
	return e.cart
}

func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, key)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Sweep removes carts idle for longer than the TTL and returns how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	n := 0
	for key, e := range r.carts {
		if e.lastSeen.Before(cutoff) {
			delete(r.carts, key)
			n++
		}
	}
	return n
}
