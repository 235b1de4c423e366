package relay

import (
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

// Dispatcher maps event names to handlers. The set of events is closed:
// anything unregistered is answered with an error frame, never dispatched
// dynamically.
type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Event()] = h }

func (d *Dispatcher) Dispatch(ctx *Context, f *Frame, c *Conn) error {
	h, ok := d.handlers[f.Event]
	if !ok {
		return errs.ErrUnknownEvent.WithDetail(f.Event)
	}
	eventsTotal.WithLabelValues(f.Event).Inc()
	return h.Handle(ctx, f, c)
}
