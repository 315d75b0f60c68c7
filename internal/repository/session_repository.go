package repository

import (
	"context"
	"sync"
)

// SessionSnapshotRepository is the key-value store behind session restore.
type SessionSnapshotRepository interface {
	// Load returns ErrNotFound when the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}

type memorySessionRepository struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemorySessionRepository returns a process-local snapshot store.
func NewMemorySessionRepository() SessionSnapshotRepository {
	return &memorySessionRepository{entries: make(map[string][]byte)}
}

func (r *memorySessionRepository) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (r *memorySessionRepository) Save(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = append([]byte(nil), value...)
	return nil
}

func (r *memorySessionRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}
