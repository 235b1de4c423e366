package relay

import (
	"go.uber.org/zap"

	"github.com/osamagivegh-hash/booking4u-sub002/logger"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
)

// Router relays point-to-point events from a sender's connection into a
// receiver's personal room (every live connection of that user). Nothing is
// queued or persisted: delivery is best-effort, at most once.
type Router struct {
	reg *Registry
}

func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg}
}

// SendDirect fans the message out to the receiver's personal room and acks
// the sender. The ack is unconditional — it means "the relay processed the
// send", never "the receiver got it". A receiver with no live connection is
// a silent drop, not an error.
func (r *Router) SendDirect(sender *Conn, p *NewMessagePayload) error {
	switch {
	case p.ReceiverID == "":
		return errs.ErrBadPayload.WithDetail("receiverId is required")
	case p.MessageID == "":
		return errs.ErrBadPayload.WithDetail("messageId is required")
	case p.Content == "":
		return errs.ErrBadPayload.WithDetail("content is required")
	case p.ConversationID == "":
		return errs.ErrBadPayload.WithDetail("conversationId is required")
	}

	ts := nowMillis()
	targets := r.reg.ByUser(p.ReceiverID)
	for _, c := range targets {
		_ = c.Emit(EventMessageReceived, MessageReceivedPayload{
			MessageID:      p.MessageID,
			SenderID:       sender.UserID,
			Sender:         sender.Profile.Name,
			Content:        p.Content,
			ConversationID: p.ConversationID,
			Timestamp:      ts,
		})
	}
	if len(targets) == 0 {
		droppedDeliveries.Inc()
		logger.Debug("receiver offline, message dropped",
			zap.String("message_id", p.MessageID),
			zap.String("receiver_id", p.ReceiverID))
	}

	messagesRelayed.Inc()
	_ = sender.Emit(EventMessageSent, MessageSentPayload{
		MessageID:  p.MessageID,
		ReceiverID: p.ReceiverID,
		Timestamp:  ts,
	})
	return nil
}

// Typing relays a typing indicator into the receiver's personal room.
// Best-effort, no acknowledgment.
func (r *Router) Typing(sender *Conn, p *TypingPayload, stopped bool) error {
	switch {
	case p.ReceiverID == "":
		return errs.ErrBadPayload.WithDetail("receiverId is required")
	case p.ConversationID == "":
		return errs.ErrBadPayload.WithDetail("conversationId is required")
	}

	event := EventUserTyping
	payload := TypingEventPayload{
		SenderID:       sender.UserID,
		ConversationID: p.ConversationID,
		Timestamp:      nowMillis(),
	}
	if stopped {
		event = EventUserStoppedTyping
	} else {
		payload.Sender = sender.Profile.Name
	}
	for _, c := range r.reg.ByUser(p.ReceiverID) {
		_ = c.Emit(event, payload)
	}
	return nil
}

// ConfirmDelivery tells the original sender that the receiving user has the
// message.
func (r *Router) ConfirmDelivery(receiver *Conn, p *DeliveredPayload) error {
	switch {
	case p.MessageID == "":
		return errs.ErrBadPayload.WithDetail("messageId is required")
	case p.SenderID == "":
		return errs.ErrBadPayload.WithDetail("senderId is required")
	}

	payload := DeliveryConfirmedPayload{
		MessageID:  p.MessageID,
		ReceiverID: receiver.UserID,
		Timestamp:  nowMillis(),
	}
	for _, c := range r.reg.ByUser(p.SenderID) {
		_ = c.Emit(EventDeliveryConfirmed, payload)
	}
	return nil
}
