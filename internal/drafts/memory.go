package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	updatedAt time.Time
}

// MemoryStore keeps encoded drafts in process memory. Drafts live until they
// are cleared or the process exits.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, key Key) (*Draft, error) {
	s.mu.Lock()
	entry, ok := s.entries[key.String()]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodePayload(key, entry.payload, entry.updatedAt)
}

func (s *MemoryStore) Save(_ context.Context, key Key, fields map[string]json.RawMessage) error {
	if err := validFields(fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := map[string]json.RawMessage{}
	if entry, ok := s.entries[key.String()]; ok {
		draft, err := decodePayload(key, entry.payload, entry.updatedAt)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if draft != nil {
			existing = draft.Fields
		}
	}

	payload, err := json.Marshal(mergeFields(existing, fields))
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	s.entries[key.String()] = memoryEntry{payload: payload, updatedAt: s.now()}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, key Key) error {
	s.mu.Lock()
	delete(s.entries, key.String())
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
