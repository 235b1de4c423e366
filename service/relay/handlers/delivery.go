package handlers

import (
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/decode"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

type DeliveryHandler struct{}

func NewDeliveryHandler() relay.Handler { return &DeliveryHandler{} }

func (h *DeliveryHandler) Event() string { return relay.EventMessageDelivered }

func (h *DeliveryHandler) Handle(ctx *relay.Context, f *relay.Frame, c *relay.Conn) error {
	p, err := decode.Payload[relay.DeliveredPayload](f.Data)
	if err != nil {
		return errs.ErrBadPayload.WithDetail(err.Error())
	}
	return ctx.S.Router().ConfirmDelivery(c, p)
}
