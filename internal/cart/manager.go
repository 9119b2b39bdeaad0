package cart

import (
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/auth"
)

// Manager keys carts by opaque session id. When a session authenticates,
// Bind associates the user so that a sign-out event can drop the cart.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Cart
	users map[uuid.UUID]map[string]struct{}

	unsubscribe func()
}

// NewManager subscribes to the broker's auth events when one is given.
// Delivery is best effort: if the subscription buffer overflows during a
// burst, the missed sign-out leaves that user's carts alive until restart.
func NewManager(broker *auth.Broker) *Manager {
	m := &Manager{
		carts: make(map[string]*Cart),
		users: make(map[uuid.UUID]map[string]struct{}),
	}

	if broker != nil {
		events, unsubscribe := broker.Subscribe()
		m.unsubscribe = unsubscribe
		go m.watch(events)
	}

	return m
}

// Cart returns the session's cart, creating it on first use.
func (m *Manager) Cart(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[sessionID]
	if !ok {
		c = New()
		m.carts[sessionID] = c
	}
	return c
}

// Bind records that the session belongs to the user.
func (m *Manager) Bind(sessionID string, userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, ok := m.users[userID]
	if !ok {
		sessions = make(map[string]struct{})
		m.users[userID] = sessions
	}
	sessions[sessionID] = struct{}{}
}

// Close detaches the manager from the auth event stream.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Manager) watch(events <-chan auth.Event) {
	for event := range events {
		if event.Type != auth.SignedOut {
			continue
		}
		m.dropUserCarts(event.UserID)
	}
}

func (m *Manager) dropUserCarts(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, ok := m.users[userID]
	if !ok {
		return
	}
	for sessionID := range sessions {
		delete(m.carts, sessionID)
	}
	delete(m.users, userID)
	log.Info().Stringer("user_id", userID).Msg("cart: dropped carts on sign-out")
}
