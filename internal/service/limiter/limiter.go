package limiter

import (
	"math"
	"sync"
	"time"
)

// Window allows max successful operations per user over a rolling period.
// Each success is remembered until it is older than period.
type Window struct {
	mu     sync.Mutex
	max    int
	period time.Duration
	hits   map[int64][]time.Time
	now    func() time.Time
}

func NewWindow(max int, period time.Duration) *Window {
	if max < 1 {
		max = 1
	}
	if period <= 0 {
		period = time.Hour
	}
	return &Window{
		max:    max,
		period: period,
		hits:   make(map[int64][]time.Time),
		now:    time.Now,
	}
}

func (w *Window) Max() int { return w.max }

func (w *Window) Period() time.Duration { return w.period }

// Check reports whether userID may start an operation and, if not, how long
// until the oldest success leaves the window. It does not consume a slot.
func (w *Window) Check(userID int64) (bool, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	hits := w.prune(userID, now)
	if len(hits) < w.max {
		return true, 0
	}
	return false, hits[0].Add(w.period).Sub(now)
}

// Record consumes a slot after a successful operation.
func (w *Window) Record(userID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.hits[userID] = append(w.prune(userID, now), now)
}

// prune drops hits that left the window. Users with no hits are forgotten.
func (w *Window) prune(userID int64, now time.Time) []time.Time {
	hits := w.hits[userID]
	i := 0
	for i < len(hits) && now.Sub(hits[i]) >= w.period {
		i++
	}
	hits = hits[i:]
	if len(hits) == 0 {
		delete(w.hits, userID)
		return nil
	}
	w.hits[userID] = hits
	return hits
}

// MinutesLeft rounds a wait up to whole minutes, never below one.
func MinutesLeft(wait time.Duration) int {
	m := int(math.Ceil(wait.Minutes()))
	if m < 1 {
		return 1
	}
	return m
}
