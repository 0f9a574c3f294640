package core

import "slices"

// Event is a board notification delivered to subscribed listeners.
type Event interface {
	boardEvent()
}

// BoardCreatedEvent carries the complete initial grid, column-major.
type BoardCreatedEvent struct {
	Columns [][]View
}

func (BoardCreatedEvent) boardEvent() {}

// ItemCreatedEvent is sent for every replacement item placed on the board.
type ItemCreatedEvent struct {
	Item View
}

func (ItemCreatedEvent) boardEvent() {}

// ItemMovedEvent is sent when an item's resting position changes, either
// because items below it were cleared or because of a shuffle swap.
type ItemMovedEvent struct {
	Item View
	From Vec2
	To   Vec2
}

func (ItemMovedEvent) boardEvent() {}

// TierChangedEvent is sent when a rescan assigns an item a different tier.
type TierChangedEvent struct {
	Item View
	From Tier
}

func (TierChangedEvent) boardEvent() {}

// BlockClearedEvent is sent once per successful tap.
type BlockClearedEvent struct {
	Color   Color
	Members []Address
}

func (BlockClearedEvent) boardEvent() {}

// SpawnRequestedEvent carries how many items each column needs.
type SpawnRequestedEvent struct {
	Counts []int
}

func (SpawnRequestedEvent) boardEvent() {}

// PoolExhaustedEvent is sent when a replacement could not be acquired.
// The column stays one item short.
type PoolExhaustedEvent struct {
	Color  Color
	Column int
}

func (PoolExhaustedEvent) boardEvent() {}

// DeadlockDetectedEvent is sent when a scan finds only single-item blocks.
// Unsolvable is set when no colour occurs twice, so no shuffle can help.
type DeadlockDetectedEvent struct {
	Unsolvable bool
}

func (DeadlockDetectedEvent) boardEvent() {}

// ShuffledEvent is sent after every deadlock recovery pass.
type ShuffledEvent struct {
	Attempt  int
	Resolved bool
}

func (ShuffledEvent) boardEvent() {}

// Listener receives board events synchronously on the engine's goroutine.
type Listener func(Event)

// Events fans out board events to registered listeners.
type Events struct {
	nextID    uint64
	listeners map[uint64]Listener
	order     []uint64
}

// Subscription ties a listener's registration to its owner's lifetime.
type Subscription struct {
	events *Events
	id     uint64
}

// Subscribe registers fn and returns a handle to unregister it.
func (e *Events) Subscribe(fn Listener) Subscription {
	if e.listeners == nil {
		e.listeners = make(map[uint64]Listener)
	}
	e.nextID++
	e.listeners[e.nextID] = fn
	e.order = append(e.order, e.nextID)
	return Subscription{events: e, id: e.nextID}
}

// Unsubscribe removes the listener. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.events == nil {
		return
	}
	delete(s.events.listeners, s.id)
	for i, id := range s.events.order {
		if id == s.id {
			s.events.order = append(s.events.order[:i], s.events.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered listeners.
func (e *Events) Len() int { return len(e.listeners) }

// Emit delivers ev to every listener in subscription order.
func (e *Events) Emit(ev Event) {
	for _, id := range slices.Clone(e.order) {
		if fn, ok := e.listeners[id]; ok {
			fn(ev)
		}
	}
}

// Reset drops every listener.
func (e *Events) Reset() {
	clear(e.listeners)
	e.order = e.order[:0]
}
