package relay

import (
	"sync"
)

// Registry owns all connection-scoped mutable state: the registration set,
// the user->latest-connection index, and the conversation-room tables.
// Everything is guarded by one mutex, and the mutex is never held across
// I/O: methods that feed a broadcast return snapshots, and the actual
// socket writes happen after release.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Conn            // conn_id -> conn (primary index)
	byUser map[string]map[string]*Conn // user -> conn_id -> conn (personal-room delivery)
	latest map[string]string           // user -> most recently registered conn_id
	rooms  map[string]map[string]*Conn // conversation_id -> conn_id -> conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Conn),
		byUser: make(map[string]map[string]*Conn),
		latest: make(map[string]string),
		rooms:  make(map[string]map[string]*Conn),
	}
}

// Add registers a connection. A newer registration for the same user
// overwrites the latest-connection index entry; the older entry is not
// merged or preserved.
func (r *Registry) Add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c.ID] = c
	m := r.byUser[c.UserID]
	if m == nil {
		m = make(map[string]*Conn)
		r.byUser[c.UserID] = m
	}
	m[c.ID] = c
	r.latest[c.UserID] = c.ID
}

// Remove deregisters a connection and purges it from every conversation
// room. The latest-connection index entry is cleared only if it still points
// at this connection; it never re-points to a surviving sibling.
func (r *Registry) Remove(connID string) (c *Conn, indexCleared bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	delete(r.conns, connID)

	if m := r.byUser[c.UserID]; m != nil {
		delete(m, connID)
		if len(m) == 0 {
			delete(r.byUser, c.UserID)
		}
	}
	if r.latest[c.UserID] == connID {
		delete(r.latest, c.UserID)
		indexCleared = true
	}

	for room, members := range r.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	return c, indexCleared
}

func (r *Registry) Get(connID string) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[connID]
}

// ByUser returns every live connection registered to userID — the personal
// room. Result is a snapshot; callers emit after the lock is gone.
func (r *Registry) ByUser(userID string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byUser[userID]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Conn, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// IndexedConn resolves a user id to its latest registered connection id.
func (r *Registry) IndexedConn(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.latest[userID]
	return id, ok
}

// All returns a snapshot of every registration.
func (r *Registry) All() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// JoinRoom adds the connection to a conversation room. Idempotent; joining
// twice is a no-op. Unknown connections are ignored (the conn may have
// raced a disconnect).
func (r *Registry) JoinRoom(connID, conversationID string) {
	if conversationID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[connID]
	if !ok {
		return
	}
	members := r.rooms[conversationID]
	if members == nil {
		members = make(map[string]*Conn)
		r.rooms[conversationID] = members
	}
	members[connID] = c
}

// LeaveRoom removes the connection from a conversation room. Idempotent;
// leaving a room never joined is a no-op, not an error.
func (r *Registry) LeaveRoom(connID, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[conversationID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, conversationID)
	}
}

// RoomMembers returns a snapshot of the connections currently joined to a
// conversation room, excluding exceptConnID if non-empty.
func (r *Registry) RoomMembers(conversationID, exceptConnID string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[conversationID]
	if len(members) == 0 {
		return nil
	}
	out := make([]*Conn, 0, len(members))
	for id, c := range members {
		if id == exceptConnID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// BroadcastRoom delivers an event to every connection in the conversation
// room, except exceptConnID if non-empty.
func (r *Registry) BroadcastRoom(conversationID, exceptConnID, event string, payload any) {
	for _, c := range r.RoomMembers(conversationID, exceptConnID) {
		_ = c.Emit(event, payload)
	}
}
