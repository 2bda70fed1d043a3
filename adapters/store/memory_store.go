package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/siws/ports"
)

// MemoryStore is an in-memory implementation of the VerificationStore
// interface, primarily intended for testing and local development. Expired
// records are not reaped eagerly; callers check ExpiresAt themselves.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]ports.VerificationRecord
}

// NewMemoryStore creates a new in-memory verification store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]ports.VerificationRecord),
	}
}

// Create stores a challenge value, replacing any previous one for identifier
func (s *MemoryStore) Create(ctx context.Context, identifier, value string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[identifier] = ports.VerificationRecord{Value: value, ExpiresAt: expiresAt}
	return nil
}

// Find returns a copy of the stored record, or nil when none exists
func (s *MemoryStore) Find(ctx context.Context, identifier string) (*ports.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[identifier]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Delete removes the record, reporting whether one existed
func (s *MemoryStore) Delete(ctx context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[identifier]
	if ok {
		delete(s.records, identifier)
	}
	return ok, nil
}

// Clear removes all records; useful for resetting state between tests
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]ports.VerificationRecord)
}
