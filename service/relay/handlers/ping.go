package handlers

import (
	"time"

	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
)

// PingHandler answers the application-level liveness probe. Transport
// heartbeats are separate; this one proves the event loop itself responds.
type PingHandler struct{}

func NewPingHandler() relay.Handler { return &PingHandler{} }

func (h *PingHandler) Event() string { return relay.EventPing }

func (h *PingHandler) Handle(_ *relay.Context, _ *relay.Frame, c *relay.Conn) error {
	return c.Emit(relay.EventPong, relay.PongPayload{Timestamp: time.Now().UnixMilli()})
}
