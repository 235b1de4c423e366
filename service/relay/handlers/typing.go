package handlers

import (
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/decode"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

// TypingHandler covers typing_start and typing_stop; both carry the same
// payload and differ only in the event relayed to the peer.
type TypingHandler struct {
	stopped bool
}

func NewTypingStartHandler() relay.Handler { return &TypingHandler{stopped: false} }
func NewTypingStopHandler() relay.Handler  { return &TypingHandler{stopped: true} }

func (h *TypingHandler) Event() string {
	if h.stopped {
		return relay.EventTypingStop
	}
	return relay.EventTypingStart
}

func (h *TypingHandler) Handle(ctx *relay.Context, f *relay.Frame, c *relay.Conn) error {
	p, err := decode.Payload[relay.TypingPayload](f.Data)
	if err != nil {
		return errs.ErrBadPayload.WithDetail(err.Error())
	}
	return ctx.S.Router().Typing(c, p, h.stopped)
}
