package auth

import (
	"sync"

	"github.com/gofrs/uuid"
)

type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

// Event is an auth-state change, published when a session starts or ends.
type Event struct {
	Type   EventType
	UserID uuid.UUID
}

// Broker fans auth-state events out to subscribers. Subscribe returns the
// event channel and an unsubscribe func; calling it (any number of times) is
// always safe, so teardown paths can defer it unconditionally.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, 8)
	b.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}

	return ch, unsubscribe
}

// Publish delivers the event to every live subscriber. Slow subscribers
// whose buffers are full miss the event rather than blocking the publisher.
func (b *Broker) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
