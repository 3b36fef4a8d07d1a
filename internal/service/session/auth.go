package session

import (
	"crypto/subtle"
	"sync"
	"time"
)

// AuthCache remembers users that entered the shared password for ttl.
type AuthCache struct {
	mu       sync.Mutex
	password string
	ttl      time.Duration
	granted  map[int64]time.Time
	now      func() time.Time
}

func NewAuthCache(password string, ttl time.Duration) *AuthCache {
	return &AuthCache{
		password: password,
		ttl:      ttl,
		granted:  make(map[int64]time.Time),
		now:      time.Now,
	}
}

// Authorize accepts a cached grant or a matching password. An empty configured
// password never matches.
func (a *AuthCache) Authorize(userID int64, password string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if at, ok := a.granted[userID]; ok {
		if now.Sub(at) < a.ttl {
			return true
		}
		delete(a.granted, userID)
	}

	if a.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return false
	}
	a.granted[userID] = now
	return true
}

// Grant authorizes userID without a password, for internal callers.
func (a *AuthCache) Grant(userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.granted[userID] = a.now()
}
