package session

import "sync"

// ActiveSet tracks users who opted in to assistant replies.
type ActiveSet struct {
	mu    sync.RWMutex
	users map[int64]struct{}
}

func NewActiveSet() *ActiveSet {
	return &ActiveSet{users: make(map[int64]struct{})}
}

// Activate returns false when the user was already active.
func (s *ActiveSet) Activate(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; ok {
		return false
	}
	s.users[userID] = struct{}{}
	return true
}

// Deactivate returns false when the user was not active.
func (s *ActiveSet) Deactivate(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return false
	}
	delete(s.users, userID)
	return true
}

func (s *ActiveSet) IsActive(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok
}
