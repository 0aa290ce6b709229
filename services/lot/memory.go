package lot

import (
	"context"
	"sync"
	"time"

	"findmyspot/models"
)

// MemoryStatusStore is used when redis is not configured.
type MemoryStatusStore struct {
	mu      sync.Mutex
	status  *models.LotStatus
	expires time.Time
	now     func() time.Time
}

// NewMemoryStatusStore returns an empty store; now defaults to time.Now.
func NewMemoryStatusStore(now func() time.Time) *MemoryStatusStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStatusStore{now: now}
}

func (m *MemoryStatusStore) Put(_ context.Context, status models.LotStatus, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = &status
	m.expires = time.Time{}
	if ttl > 0 {
		m.expires = m.now().Add(ttl)
	}
	return nil
}

func (m *MemoryStatusStore) Get(_ context.Context) (*models.LotStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == nil || (!m.expires.IsZero() && !m.now().Before(m.expires)) {
		return nil, ErrNoStatus
	}
	status := *m.status
	return &status, nil
}
