package thread

import (
	"sync"

	"subseek/internal/llm"
)

// Store persists conversation threads keyed by id
type Store interface {
	// History returns the thread's messages in order, empty when unknown
	History(id string) ([]llm.Message, error)
	// Append adds messages to the end of the thread
	Append(id string, msgs ...llm.Message) error
	// Clear discards the thread
	Clear(id string) error
}

// MemoryStore keeps threads in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]llm.Message
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]llm.Message)}
}

// History returns a copy of the thread's messages
func (s *MemoryStore) History(id string) ([]llm.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.threads[id]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Append adds messages to the thread
func (s *MemoryStore) Append(id string, msgs ...llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads[id] = append(s.threads[id], msgs...)
	return nil
}

// Clear discards the thread
func (s *MemoryStore) Clear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, id)
	return nil
}
