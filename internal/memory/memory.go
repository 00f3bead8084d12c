// Package memory keeps the bounded per-conversation turn history.
package memory

import (
	"sync"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// DefaultLimit is the number of turns kept per conversation.
const DefaultLimit = 20

// Store maps conversation ids to their most recent turns. Each history holds
// at most limit turns in arrival order; the oldest turns are evicted first.
// The number of user turns ever appended is kept separately and survives
// eviction.
type Store struct {
	mu            sync.RWMutex
	limit         int
	conversations map[string][]domain.Turn
	userTurns     map[string]int
}

// New creates a store keeping limit turns per conversation. A non-positive
// limit selects DefaultLimit.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit:         limit,
		conversations: make(map[string][]domain.Turn),
		userTurns:     make(map[string]int),
	}
}

// Get returns a copy of the conversation history, oldest first.
func (s *Store) Get(conversationID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.conversations[conversationID]
	if len(history) == 0 {
		return nil
	}
	return append([]domain.Turn(nil), history...)
}

// Append adds turns to the conversation and truncates it to the limit.
func (s *Store) Append(conversationID string, turns ...domain.Turn) {
	if len(turns) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range turns {
		if t.Role == domain.RoleUser {
			s.userTurns[conversationID]++
		}
	}
	history := append(s.conversations[conversationID], turns...)
	if over := len(history) - s.limit; over > 0 {
		history = append([]domain.Turn(nil), history[over:]...)
	}
	s.conversations[conversationID] = history
}

// Delete forgets one conversation.
func (s *Store) Delete(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	delete(s.userTurns, conversationID)
}

// UserTurns returns how many user turns were appended to the conversation,
// evicted ones included.
func (s *Store) UserTurns(conversationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userTurns[conversationID]
}

// Clear forgets every conversation and returns how many were dropped.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.conversations)
	s.conversations = make(map[string][]domain.Turn)
	s.userTurns = make(map[string]int)
	return n
}

// Len returns the number of conversations held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
