package service

import (
	"context"
	"sync"

	"mystic_market/internal/domain/entity"
)

type EventKind string

const (
	EventRolled       EventKind = "rolled"
	EventRecomputed   EventKind = "recomputed"
	EventRollRejected EventKind = "roll_rejected"
	EventFinalized    EventKind = "finalized"
	EventEnded        EventKind = "ended"
)

// Event is published after the session state it describes has been saved.
type Event struct {
	Kind        EventKind
	Session     entity.Session
	Valuation   entity.Valuation
	Transaction *entity.Transaction
	Warnings    []string
}

// Effect reacts to an event. Effects run on the caller's goroutine and must
// not block; slow work belongs on a worker.
type Effect func(context.Context, Event)

type Bus struct {
	mu      sync.RWMutex
	effects map[EventKind][]Effect
}

func NewBus() *Bus {
	return &Bus{effects: make(map[EventKind][]Effect)}
}

// Subscribe registers effect for every listed kind.
func (b *Bus) Subscribe(effect Effect, kinds ...EventKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, kind := range kinds {
		b.effects[kind] = append(b.effects[kind], effect)
	}
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	effects := b.effects[event.Kind]
	b.mu.RUnlock()

	for _, effect := range effects {
		effect(ctx, event)
	}
}
