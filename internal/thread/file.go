package thread

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"subseek/internal/llm"
)

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileStore persists each thread as one JSON file under a directory.
// A corrupt thread file starts a fresh history rather than blocking the
// conversation.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thread dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// History returns the thread's messages, empty when the file is missing
func (s *FileStore) History(id string) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// Append adds messages and rewrites the thread file
func (s *FileStore) Append(id string, msgs ...llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(id)
	if err != nil {
		return err
	}
	history = append(history, msgs...)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode thread: %w", err)
	}
	if err := os.WriteFile(s.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write thread: %w", err)
	}
	return nil
}

// Clear removes the thread file
func (s *FileStore) Clear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) load(id string) ([]llm.Message, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []llm.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, nil
	}
	return msgs, nil
}

func (s *FileStore) path(id string) string {
	name := unsafeIDChars.ReplaceAllString(id, "-")
	if name == "" {
		name = "default"
	}
	return filepath.Join(s.dir, name+".json")
}
