package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// Pending holds values referenced by inline button data until they are taken
// or expire.
type Pending[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
	now   func() time.Time
}

func NewPending[T any](ttl time.Duration) *Pending[T] {
	return &Pending[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
		now:   time.Now,
	}
}

func (p *Pending[T]) Put(value T) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.evict()
	id := uuid.NewString()
	p.items[id] = entry[T]{value: value, expires: p.now().Add(p.ttl)}
	return id
}

// Take removes and returns the value; expired entries are reported missing.
func (p *Pending[T]) Take(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.items[id]
	delete(p.items, id)
	if !ok || p.now().After(e.expires) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (p *Pending[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

func (p *Pending[T]) evict() {
	now := p.now()
	for id, e := range p.items {
		if now.After(e.expires) {
			delete(p.items, id)
		}
	}
}

func (p *Pending[T]) TTL() time.Duration {
	return p.ttl
}
