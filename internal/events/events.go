// Package events carries mutation notifications out of the offline
// storage adapter so interested components (loggers, future sync
// workers) can observe changes without polling.
package events

import (
	"sync"
	"time"
)

// Kind identifies the mutation that happened. The set is closed:
// subscribers can switch over it exhaustively.
type Kind string

const (
	MealCreated       Kind = "meal.created"
	MealUpdated       Kind = "meal.updated"
	MealDeleted       Kind = "meal.deleted"
	AssignmentCreated Kind = "assignment.created"
	AssignmentUpdated Kind = "assignment.updated"
	AssignmentDeleted Kind = "assignment.deleted"
	SettingsUpdated   Kind = "settings.updated"
)

// Event describes one storage mutation.
type Event struct {
	Kind        Kind
	OwnerUserID string
	EntityID    string
	At          time.Time
}

// Bus is a fan-out broadcaster for storage events. Publish never
// blocks: slow subscribers miss events rather than stall mutations.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber with the given channel buffer and
// returns the channel plus an unsubscribe function. Unsubscribing
// closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// Publish delivers the event to every subscriber whose buffer has room.
func (b *Bus) Publish(kind Kind, ownerUserID, entityID string) {
	evt := Event{
		Kind:        kind,
		OwnerUserID: ownerUserID,
		EntityID:    entityID,
		At:          time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
