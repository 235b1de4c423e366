package relay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/osamagivegh-hash/booking4u-sub002/logger"
	"github.com/osamagivegh-hash/booking4u-sub002/service/storage"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

// Registration is the queryable view of one live connection.
type Registration struct {
	ConnID      string    `json:"connId"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	ConnectedAt time.Time `json:"connectedAt"`
	LastSeen    time.Time `json:"lastSeen"`
}

// Stats is the aggregate served on /stats.
type Stats struct {
	Connections   int            `json:"connections"`
	Registrations []Registration `json:"registrations"`
}

// Presence maintains the registration set and the user index and announces
// status transitions. Presence is connection-scoped, not user-scoped: a user
// with two tabs flickers offline when one tab closes even though the other
// is still live. That behavior is preserved deliberately and pinned by
// tests; fixing it needs product sign-off.
type Presence struct {
	reg    *Registry
	mirror *storage.PresenceMirror // optional, best-effort
}

func NewPresence(reg *Registry, mirror *storage.PresenceMirror) *Presence {
	return &Presence{reg: reg, mirror: mirror}
}

// Register inserts the registration with status online, points the user
// index at it, confirms back to the registering client, and broadcasts the
// transition to every connected client. The broadcast is global by design
// at the system's current scale.
func (p *Presence) Register(c *Conn) {
	p.reg.Add(c)
	openConnections.Inc()

	payload := StatusPayload{UserID: c.UserID, Status: StatusOnline, Timestamp: nowMillis()}
	_ = c.Emit(EventUserOnline, payload)
	p.broadcast(payload)
	p.mirrorOnline(c)

	logger.Info("connection registered",
		zap.String("conn_id", c.ID),
		zap.String("user_id", c.UserID),
		zap.String("name", c.Profile.Name))
}

// UpdateStatus applies online<->away transitions. An unchanged status is
// still re-broadcast; clients rely on the announcement as a heartbeat.
func (p *Presence) UpdateStatus(connID string, status Status) error {
	if !validStatus(status) {
		return errs.ErrBadPayload.WithDetail("status must be online or away")
	}
	c := p.reg.Get(connID)
	if c == nil {
		return errs.ErrBadPayload.WithDetail("unknown connection " + connID)
	}
	c.setStatus(status)
	p.broadcast(StatusPayload{UserID: c.UserID, Status: status, Timestamp: nowMillis()})
	return nil
}

// Deregister removes the registration and all of its room memberships,
// clears the user index if it still points here, and broadcasts offline —
// regardless of whether sibling connections for the same user survive.
func (p *Presence) Deregister(connID, reason string) {
	c, indexCleared := p.reg.Remove(connID)
	if c == nil {
		return
	}
	openConnections.Dec()

	p.broadcast(StatusPayload{UserID: c.UserID, Status: StatusOffline, Timestamp: nowMillis()})
	p.mirrorOffline(c)

	logger.Info("connection deregistered",
		zap.String("conn_id", connID),
		zap.String("user_id", c.UserID),
		zap.String("reason", reason),
		zap.Bool("index_cleared", indexCleared))
}

func (p *Presence) broadcast(payload StatusPayload) {
	for _, c := range p.reg.All() {
		_ = c.Emit(EventUserStatusChanged, payload)
	}
}

// Resolve maps a user id to its latest registered connection id.
func (p *Presence) Resolve(userID string) (string, bool) {
	return p.reg.IndexedConn(userID)
}

// Snapshot lists every current registration.
func (p *Presence) Snapshot() []Registration {
	conns := p.reg.All()
	out := make([]Registration, 0, len(conns))
	for _, c := range conns {
		out = append(out, Registration{
			ConnID:      c.ID,
			UserID:      c.UserID,
			Name:        c.Profile.Name,
			Status:      c.Status(),
			ConnectedAt: c.ConnectedAt,
			LastSeen:    c.LastActive(),
		})
	}
	return out
}

func (p *Presence) Stats() Stats {
	regs := p.Snapshot()
	return Stats{Connections: len(regs), Registrations: regs}
}

func (p *Presence) mirrorOnline(c *Conn) {
	if p.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.mirror.Online(ctx, c.UserID, c.ID); err != nil {
		logger.Warnf("presence mirror online failed user=%s: %v", c.UserID, err)
	}
}

func (p *Presence) mirrorOffline(c *Conn) {
	if p.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.mirror.Offline(ctx, c.UserID); err != nil {
		logger.Warnf("presence mirror offline failed user=%s: %v", c.UserID, err)
	}
}
