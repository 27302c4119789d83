package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

// Exports are transient artifacts: they live in memory only and are
// not mirrored to the local snapshot.

func (m *MemoryStorage) CreateExport(ctx context.Context, e *storage.ExportMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()

	stored := *e
	m.exports[e.ID] = &stored

	return nil
}

func (m *MemoryStorage) GetExport(ctx context.Context, ownerUserID, id string) (*storage.ExportMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.exports[id]
	if !ok || e.OwnerUserID != ownerUserID {
		return nil, storage.ErrNotFound
	}

	out := *e
	return &out, nil
}
