package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps live sessions keyed by id. Sessions are created at first
// contact and torn down explicitly; nothing here survives a restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a fresh session under a random id.
func (s *Store) Create() *Session {
	sess := &Session{ID: uuid.New().String()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get looks up an existing session.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// GetOrCreate returns the session for id, or a new one when id is empty or
// unknown (the session may have been dropped by a restart).
func (s *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess
		}
	}
	return s.Create()
}

// Delete tears a session down, discarding its keys and article.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
