package broker

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/metrics"
)

// Event is one message bound for a live stream: an SSE event name plus its
// already-serialized JSON payload.
type Event struct {
	Name string
	Data []byte
}

// Connection is one open live stream. It is owned by the Broker from Add
// until Remove; the transport handler only reads from Events.
type Connection struct {
	ID     uuid.UUID
	UserID int64

	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewConnection allocates a connection with the given send-buffer capacity.
// A publish that finds the buffer full is treated as a send failure.
func NewConnection(userID int64, buffer int) *Connection {
	return &Connection{
		ID:     uuid.New(),
		UserID: userID,
		ch:     make(chan Event, buffer),
	}
}

// Events is the receive side consumed by the transport handler. The channel
// is closed when the connection is closed.
func (c *Connection) Events() <-chan Event {
	return c.ch
}

// Close terminates the connection. Idempotent; safe to call from either the
// transport handler or the broker's failure path.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// send is non-blocking: a full buffer or a closed connection reports failure
// instead of stalling the publisher.
func (c *Connection) send(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.ch <- ev:
		return true
	default:
		return false
	}
}

// Broker routes published events to every open connection of the target
// user. It holds no history and gives no delivery guarantee; durability is
// the store's job. One instance per process, owned by the composition root.
type Broker struct {
	mu    sync.RWMutex
	users map[int64]map[uuid.UUID]*Connection
	log   *zap.Logger
	met   *metrics.Metrics
}

func New(logger *zap.Logger, met *metrics.Metrics) *Broker {
	return &Broker{
		users: make(map[int64]map[uuid.UUID]*Connection),
		log:   logger,
		met:   met,
	}
}

// Add registers a connection. It is eligible for fan-out immediately.
func (b *Broker) Add(conn *Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.users[conn.UserID]
	if set == nil {
		set = make(map[uuid.UUID]*Connection)
		b.users[conn.UserID] = set
	}
	set[conn.ID] = conn
	b.met.LiveConnections.Inc()
}

// Remove unregisters a connection. Removing one that is not present is a
// no-op; an emptied set is dropped so idle users cost nothing.
func (b *Broker) Remove(conn *Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.users[conn.UserID]
	if set == nil {
		return
	}
	if _, ok := set[conn.ID]; !ok {
		return
	}
	delete(set, conn.ID)
	if len(set) == 0 {
		delete(b.users, conn.UserID)
	}
	b.met.LiveConnections.Dec()
}

// Publish fans the event out to every open connection of the user, at most
// once per connection. A connection whose send fails is closed and removed;
// the failure never blocks delivery to the rest. Returns the number of
// connections that accepted the event.
func (b *Broker) Publish(userID int64, event string, payload []byte) int {
	b.mu.RLock()
	conns := make([]*Connection, 0, len(b.users[userID]))
	for _, conn := range b.users[userID] {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	ev := Event{Name: event, Data: payload}
	delivered := 0
	for _, conn := range conns {
		if conn.send(ev) {
			delivered++
			continue
		}
		b.log.Warn("dropping dead connection",
			zap.String("connection_id", conn.ID.String()),
			zap.Int64("user_id", conn.UserID),
			zap.String("event", event),
		)
		b.met.DroppedEvents.Inc()
		conn.Close()
		b.Remove(conn)
	}
	b.met.EventsDelivered.Add(float64(delivered))
	return delivered
}

// ConnectionCount reports how many streams the user currently has open.
func (b *Broker) ConnectionCount(userID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.users[userID])
}
