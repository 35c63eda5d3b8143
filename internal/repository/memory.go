package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

// MemoryStore holds the encoded collection in process memory. It goes
// through the same codec as the durable backends.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, ErrNotFound
	}
	return DecodeAlerts(m.data)
}

func (m *MemoryStore) Save(ctx context.Context, alerts []models.Alert) error {
	data, err := EncodeAlerts(alerts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Raw returns the stored bytes, or nil if nothing was saved.
func (m *MemoryStore) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.mu.Unlock()
}
