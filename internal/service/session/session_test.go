package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func TestActiveSet(t *testing.T) {
	s := NewActiveSet()

	assert.True(t, s.Activate(1))
	assert.False(t, s.Activate(1))
	assert.True(t, s.IsActive(1))
	assert.False(t, s.IsActive(2))

	assert.True(t, s.Deactivate(1))
	assert.False(t, s.Deactivate(1))
	assert.False(t, s.IsActive(1))
}

func TestActiveSetConcurrent(t *testing.T) {
	s := NewActiveSet()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Activate(id)
			s.IsActive(id)
		}(i)
	}
	wg.Wait()
	assert.True(t, s.IsActive(49))
}

func TestAuthCache(t *testing.T) {
	c := &clock{t: time.Unix(1000, 0)}
	a := NewAuthCache("secret", time.Minute)
	a.now = c.now

	assert.False(t, a.Authorize(1, "wrong"))
	assert.True(t, a.Authorize(1, "secret"))
	assert.True(t, a.Authorize(1, ""), "cached grant")

	c.t = c.t.Add(2 * time.Minute)
	assert.False(t, a.Authorize(1, ""), "grant expired")

	a.Grant(2)
	assert.True(t, a.Authorize(2, ""))
}

func TestAuthCacheEmptyPassword(t *testing.T) {
	a := NewAuthCache("", time.Minute)
	assert.False(t, a.Authorize(1, ""))
}

func TestPending(t *testing.T) {
	c := &clock{t: time.Unix(1000, 0)}
	p := NewPending[string](time.Minute)
	p.now = c.now

	id := p.Put("never gonna give you up")
	v, ok := p.Take(id)
	assert.True(t, ok)
	assert.Equal(t, "never gonna give you up", v)

	_, ok = p.Take(id)
	assert.False(t, ok, "taken once")

	stale := p.Put("old")
	c.t = c.t.Add(2 * time.Minute)
	_, ok = p.Take(stale)
	assert.False(t, ok)

	p.Put("a")
	c.t = c.t.Add(2 * time.Minute)
	p.Put("b")
	assert.Equal(t, 1, p.Len())
}
