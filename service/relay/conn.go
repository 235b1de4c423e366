package relay

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/osamagivegh-hash/booking4u-sub002/service/identity"
)

// Status is a connection's presence status.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

func validStatus(s Status) bool {
	return s == StatusOnline || s == StatusAway
}

// wire is the slice of *websocket.Conn the relay writes through. Narrowed
// to an interface so unit tests can capture emitted frames without a socket.
// Closing the transport stays with the read loop that owns it.
type wire interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
}

// Conn is one Connection Registration: a live transport connection plus the
// authenticated user snapshot attached to it. Created only after the
// authentication gate has passed, destroyed on disconnect of any kind.
type Conn struct {
	ID          string
	UserID      string
	Profile     identity.Profile
	ConnectedAt time.Time

	mu         sync.Mutex
	sock       wire
	writeWait  time.Duration
	status     Status
	lastActive time.Time
}

func newConn(id string, profile identity.Profile, sock wire, writeWait time.Duration, now time.Time) *Conn {
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}
	return &Conn{
		ID:          id,
		UserID:      profile.ID,
		Profile:     profile,
		ConnectedAt: now,
		sock:        sock,
		writeWait:   writeWait,
		status:      StatusOnline,
		lastActive:  now,
	}
}

// Emit writes one event frame. Writes are serialized per connection; the
// write deadline bounds a stalled peer.
func (c *Conn) Emit(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sock == nil {
		return errors.New("connection has no transport")
	}
	_ = c.sock.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.sock.WriteJSON(outFrame{Event: event, Data: data})
}

// Touch refreshes the last-activity timestamp.
func (c *Conn) Touch() {
	c.mu.Lock()
	c.lastActive = time.Now()
	c.mu.Unlock()
}

func (c *Conn) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Conn) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.lastActive = time.Now()
	c.mu.Unlock()
}

func (c *Conn) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}
