package handlers

import (
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
)

// StatusHandler covers the user_online / user_away presence transitions.
type StatusHandler struct {
	event  string
	status relay.Status
}

func NewOnlineHandler() relay.Handler {
	return &StatusHandler{event: relay.EventUserOnline, status: relay.StatusOnline}
}

func NewAwayHandler() relay.Handler {
	return &StatusHandler{event: relay.EventUserAway, status: relay.StatusAway}
}

func (h *StatusHandler) Event() string { return h.event }

func (h *StatusHandler) Handle(ctx *relay.Context, _ *relay.Frame, c *relay.Conn) error {
	return ctx.S.Presence().UpdateStatus(c.ID, h.status)
}
