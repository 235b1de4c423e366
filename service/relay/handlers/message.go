package handlers

import (
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/decode"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

type MessageHandler struct{}

func NewMessageHandler() relay.Handler { return &MessageHandler{} }

func (h *MessageHandler) Event() string { return relay.EventNewMessage }

func (h *MessageHandler) Handle(ctx *relay.Context, f *relay.Frame, c *relay.Conn) error {
	p, err := decode.Payload[relay.NewMessagePayload](f.Data)
	if err != nil {
		return errs.ErrBadPayload.WithDetail(err.Error())
	}
	return ctx.S.Router().SendDirect(c, p)
}
