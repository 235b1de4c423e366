package handlers

import (
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

// ConversationHandler covers join_conversation and leave_conversation.
// Both are idempotent room-membership changes keyed by conversation id.
type ConversationHandler struct {
	leave bool
}

func NewJoinConversationHandler() relay.Handler  { return &ConversationHandler{leave: false} }
func NewLeaveConversationHandler() relay.Handler { return &ConversationHandler{leave: true} }

func (h *ConversationHandler) Event() string {
	if h.leave {
		return relay.EventLeaveConversation
	}
	return relay.EventJoinConversation
}

func (h *ConversationHandler) Handle(ctx *relay.Context, f *relay.Frame, c *relay.Conn) error {
	id, err := relay.ParseConversationID(f.Data)
	if err != nil {
		return errs.ErrBadPayload.WithDetail(err.Error())
	}
	if h.leave {
		ctx.S.Registry().LeaveRoom(c.ID, id)
	} else {
		ctx.S.Registry().JoinRoom(c.ID, id)
	}
	return nil
}
