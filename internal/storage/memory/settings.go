package memory

import (
	"context"
	"time"

	"github.com/kaylahuffman7/Plated-v2/internal/events"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func (m *MemoryStorage) GetSettings(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[ownerUserID]
	if !ok {
		return storage.Settings{}, false, nil
	}
	return *s, true, nil
}

func (m *MemoryStorage) UpsertSettings(ctx context.Context, ownerUserID string, s storage.Settings) (storage.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	s.OwnerUserID = ownerUserID
	s.UpdatedAt = now

	if existing, ok := m.settings[ownerUserID]; ok {
		s.CreatedAt = existing.CreatedAt
	} else {
		s.CreatedAt = now
	}

	if s.ActiveSlots == nil {
		s.ActiveSlots = []string{}
	}

	m.settings[ownerUserID] = &s

	m.persistSettingsLocked()
	m.publish(events.SettingsUpdated, ownerUserID, ownerUserID)

	return s, nil
}
