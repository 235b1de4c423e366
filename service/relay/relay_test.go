package relay

import (
	"sync"
	"time"

	"github.com/osamagivegh-hash/booking4u-sub002/service/identity"
)

// fakeSock captures emitted frames so tests can assert on delivery without
// a real websocket.
type fakeSock struct {
	mu     sync.Mutex
	frames []outFrame
}

func (f *fakeSock) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, v.(outFrame))
	return nil
}

func (f *fakeSock) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeSock) byEvent(event string) []outFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outFrame
	for _, fr := range f.frames {
		if fr.Event == event {
			out = append(out, fr)
		}
	}
	return out
}

func (f *fakeSock) count(event string) int { return len(f.byEvent(event)) }

func (f *fakeSock) last(event string) (outFrame, bool) {
	frames := f.byEvent(event)
	if len(frames) == 0 {
		return outFrame{}, false
	}
	return frames[len(frames)-1], true
}

func newTestConn(id, userID, name string, fs *fakeSock) *Conn {
	return newConn(id, identity.Profile{ID: userID, Name: name, Active: true}, fs, time.Second, time.Now())
}
