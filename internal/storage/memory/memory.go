// Package memory is the offline storage adapter: mutex-guarded maps,
// optionally backed by a durable JSON snapshot and broadcasting every
// mutation on the event bus. It powers demo mode when no database is
// configured.
package memory

import (
	"log"
	"sync"

	"github.com/kaylahuffman7/Plated-v2/internal/events"
	"github.com/kaylahuffman7/Plated-v2/internal/localstore"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

// MemoryStorage — in-memory implementation of the full storage contract.
type MemoryStorage struct {
	mu          sync.RWMutex
	meals       map[string]*storage.Meal
	plans       map[string]*storage.MealPlan
	planByTuple map[string]string // owner:week:day:slot -> plan id
	settings    map[string]*storage.Settings
	exports     map[string]*storage.ExportMeta

	bus   *events.Bus
	local *localstore.Store
}

// Option configures a MemoryStorage.
type Option func(*MemoryStorage)

// WithEventBus makes every mutation publish a typed event.
func WithEventBus(bus *events.Bus) Option {
	return func(m *MemoryStorage) { m.bus = bus }
}

// WithLocalStore mirrors state to the given store after every mutation
// and loads the previous snapshot on startup.
func WithLocalStore(store *localstore.Store) Option {
	return func(m *MemoryStorage) { m.local = store }
}

// New creates a MemoryStorage. With a local store attached, the
// previous snapshot is loaded before the storage is returned.
func New(opts ...Option) *MemoryStorage {
	m := &MemoryStorage{
		meals:       make(map[string]*storage.Meal),
		plans:       make(map[string]*storage.MealPlan),
		planByTuple: make(map[string]string),
		settings:    make(map[string]*storage.Settings),
		exports:     make(map[string]*storage.ExportMeta),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.local != nil {
		if err := m.loadSnapshot(); err != nil {
			log.Printf("WARN memory: snapshot load failed, starting empty: %v", err)
		}
	}

	return m
}

// HasMeals reports whether any user has catalog entries. Used to
// decide whether demo seeding applies.
func (m *MemoryStorage) HasMeals() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.meals) > 0
}

func (m *MemoryStorage) Close() error {
	// no-op for memory
	return nil
}

func (m *MemoryStorage) publish(kind events.Kind, ownerUserID, entityID string) {
	if m.bus != nil {
		m.bus.Publish(kind, ownerUserID, entityID)
	}
}
