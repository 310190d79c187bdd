package memory

import (
	"sync"

	"github.com/bnema/expense-bot/internal/domain"
	"github.com/bnema/expense-bot/internal/ports"
)

// Store keeps bearer tokens in memory for the life of the process. Entries
// never expire and the map is unbounded.
type Store struct {
	mu     sync.RWMutex
	tokens map[domain.CallerID]string
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{tokens: make(map[domain.CallerID]string)}
}

func (s *Store) Set(caller domain.CallerID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[caller] = token
}

func (s *Store) Get(caller domain.CallerID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[caller]
	return token, ok
}

func (s *Store) Clear(caller domain.CallerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, caller)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens)
}
