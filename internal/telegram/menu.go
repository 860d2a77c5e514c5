package telegram

import "sync"

// menuSessions tracks the single live menu message per user so that
// repeated navigation edits one message instead of stacking new ones.
// Process-local on purpose: after a restart the worst case is one extra
// message sent instead of an edit.
type menuSessions struct {
	mu sync.RWMutex
	m  map[string]int // userID -> messageID of the live menu
}

func newMenuSessions() *menuSessions {
	return &menuSessions{m: make(map[string]int)}
}

// record replaces the tracked menu message id for the user.
func (s *menuSessions) record(userID string, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = messageID
}

// get returns the tracked menu message id, if any.
func (s *menuSessions) get(userID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.m[userID]
	return id, ok
}
