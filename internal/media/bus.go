// Package media coordinates the background music player and the project
// media modal so that two audio sources never play at once.
//
// The two sides never reference each other. The modal emits signals on a
// Bus and the player subscribes to them. A Bus belongs to one visitor
// session: it is created with the session and closed when the session is
// torn down.
package media

import (
	"sort"
	"sync"
)

// Signal is a payload-free notification delivered over a Bus.
type Signal int

const (
	PauseRequested Signal = iota
	ResumeRequested
)

func (s Signal) String() string {
	switch s {
	case PauseRequested:
		return "pause_requested"
	case ResumeRequested:
		return "resume_requested"
	default:
		return "unknown"
	}
}

// Bus is a synchronous, fire-and-forget broadcast registry. Emit calls every
// listener of the signal before returning. Nothing is queued: a signal
// emitted with no listeners is dropped.
type Bus struct {
	mu     sync.Mutex
	next   int
	subs   map[Signal]map[int]func()
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Signal]map[int]func())}
}

// Subscribe registers fn for sig and returns a func that removes it.
// Subscribing to a closed bus is allowed and never delivers.
func (b *Bus) Subscribe(sig Signal, fn func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	id := b.next
	b.next++
	if b.subs[sig] == nil {
		b.subs[sig] = make(map[int]func())
	}
	b.subs[sig][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[sig], id)
			b.mu.Unlock()
		})
	}
}

// Emit delivers sig to the current listeners in subscription order and
// reports how many were reached. Listeners may subscribe, unsubscribe or
// emit from inside a handler.
func (b *Bus) Emit(sig Signal) int {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}
	ids := make([]int, 0, len(b.subs[sig]))
	for id := range b.subs[sig] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[sig][id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Listeners reports the number of listeners registered for sig.
func (b *Bus) Listeners(sig Signal) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[sig])
}

// Close drops every listener. Later emits are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[Signal]map[int]func())
}
