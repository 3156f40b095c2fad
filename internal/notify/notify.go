// Package notify carries repository change notifications between the
// rewrite engine and the rest of the application. A successful rewrite
// publishes an event here; the host subscribes to refresh its views.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes why the repository changed.
type EventKind string

const (
	// KindHistoryRewritten is published after a rewrite completes.
	KindHistoryRewritten EventKind = "history-rewritten"
	// KindExternalChange is published when the repo watcher sees git
	// state change underneath the open dialog.
	KindExternalChange EventKind = "external-change"
)

// Event describes one repository change.
type Event struct {
	ID   uuid.UUID
	Kind EventKind
	Repo string
	At   time.Time
}

// Publisher is the side of the bus the rewrite controller depends on.
type Publisher interface {
	Publish(Event)
}

// Bus is a process-wide fan-out of repository change events. Subscribers
// get a buffered channel; a subscriber that stops draining loses events
// rather than blocking publishers.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called to release the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish delivers the event to every live subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
