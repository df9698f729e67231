package cart

import "sync"

// Store keeps quotation sessions in memory for their lifetime. Sessions are
// never persisted; losing the process loses the carts.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Quotation
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{sessions: map[string]*Quotation{}}
}

// Put registers a quotation session.
func (s *Store) Put(q *Quotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[q.ID] = q
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Quotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.sessions[id]
	return q, ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
