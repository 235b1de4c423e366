package relay

import (
	"testing"

	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

func statusFrames(fs *fakeSock, userID string) []StatusPayload {
	var out []StatusPayload
	for _, fr := range fs.byEvent(EventUserStatusChanged) {
		p := fr.Data.(StatusPayload)
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

func TestRegisterConfirmsAndBroadcasts(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	fo := &fakeSock{}
	observer := newTestConn("conn-o", "observer", "Olga", fo)
	p.Register(observer)

	fa := &fakeSock{}
	alice := newTestConn("conn-a", "alice", "Alice", fa)
	p.Register(alice)

	fr, ok := fa.last(EventUserOnline)
	if !ok {
		t.Fatal("registering client did not receive its own confirmation")
	}
	if got := fr.Data.(StatusPayload); got.UserID != "alice" || got.Status != StatusOnline {
		t.Fatalf("confirmation payload = %+v", got)
	}

	if got := statusFrames(fo, "alice"); len(got) != 1 || got[0].Status != StatusOnline {
		t.Fatalf("observer saw %v; want one online transition for alice", got)
	}
	// The broadcast is global and includes the registrant itself.
	if got := statusFrames(fa, "alice"); len(got) != 1 {
		t.Fatalf("registrant saw %d of its own transitions; want 1", len(got))
	}
}

func TestUpdateStatusAway(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	fo := &fakeSock{}
	p.Register(newTestConn("conn-o", "observer", "Olga", fo))
	fa := &fakeSock{}
	alice := newTestConn("conn-a", "alice", "Alice", fa)
	p.Register(alice)

	if err := p.UpdateStatus("conn-a", StatusAway); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if alice.Status() != StatusAway {
		t.Fatalf("status = %s; want away", alice.Status())
	}
	got := statusFrames(fo, "alice")
	if len(got) != 2 || got[1].Status != StatusAway {
		t.Fatalf("observer transitions = %v; want online then away", got)
	}
}

func TestUpdateStatusUnchangedStillBroadcasts(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	fo := &fakeSock{}
	p.Register(newTestConn("conn-o", "observer", "Olga", fo))
	p.Register(newTestConn("conn-a", "alice", "Alice", &fakeSock{}))

	before := len(statusFrames(fo, "alice"))
	if err := p.UpdateStatus("conn-a", StatusOnline); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got := len(statusFrames(fo, "alice")); got != before+1 {
		t.Fatalf("observer transitions = %d; want %d (unchanged status re-broadcast)", got, before+1)
	}
}

func TestUpdateStatusRejectsOfflineAndUnknown(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	p.Register(newTestConn("conn-a", "alice", "Alice", &fakeSock{}))

	if err := p.UpdateStatus("conn-a", StatusOffline); !errs.ErrBadPayload.Is(err) {
		t.Fatalf("offline via status update = %v; want bad payload", err)
	}
	if err := p.UpdateStatus("conn-x", StatusAway); !errs.ErrBadPayload.Is(err) {
		t.Fatalf("unknown connection = %v; want bad payload", err)
	}
}

func TestDeregisterBroadcastsOfflineDespiteLiveSibling(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	fo := &fakeSock{}
	p.Register(newTestConn("conn-o", "observer", "Olga", fo))
	p.Register(newTestConn("conn-a1", "alice", "Alice", &fakeSock{}))
	p.Register(newTestConn("conn-a2", "alice", "Alice", &fakeSock{}))

	// Presence is connection-scoped: closing one tab announces offline even
	// though the other tab is still connected.
	p.Deregister("conn-a1", "peer closed")

	got := statusFrames(fo, "alice")
	if len(got) == 0 || got[len(got)-1].Status != StatusOffline {
		t.Fatalf("observer transitions = %v; want trailing offline", got)
	}
	if _, ok := p.Resolve("alice"); !ok {
		t.Fatal("index should still point at the surviving latest registrant")
	}

	p.Deregister("conn-a2", "peer closed")
	if _, ok := p.Resolve("alice"); ok {
		t.Fatal("index should be cleared once the latest registrant is gone")
	}
}

func TestDeregisterUnknownIsSilent(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	fo := &fakeSock{}
	p.Register(newTestConn("conn-o", "observer", "Olga", fo))

	before := fo.count(EventUserStatusChanged)
	p.Deregister("conn-x", "idle timeout")
	if fo.count(EventUserStatusChanged) != before {
		t.Fatal("deregistering an unknown connection must not broadcast")
	}
}

func TestStatsSnapshot(t *testing.T) {
	p := NewPresence(NewRegistry(), nil)
	p.Register(newTestConn("conn-a", "alice", "Alice", &fakeSock{}))
	p.Register(newTestConn("conn-b", "bob", "Bob", &fakeSock{}))

	st := p.Stats()
	if st.Connections != 2 || len(st.Registrations) != 2 {
		t.Fatalf("stats = %+v; want 2 connections", st)
	}
	seen := map[string]Status{}
	for _, r := range st.Registrations {
		seen[r.UserID] = r.Status
	}
	if seen["alice"] != StatusOnline || seen["bob"] != StatusOnline {
		t.Fatalf("registration statuses = %v", seen)
	}
}
