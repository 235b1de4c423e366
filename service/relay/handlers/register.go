package handlers

import (
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
)

// RegisterAll wires every client event the relay understands. The event set
// is closed: anything else is answered with an error frame by the
// dispatcher.
func RegisterAll(s *relay.Server) {
	d := s.Dispatcher()
	d.Register(NewMessageHandler())
	d.Register(NewTypingStartHandler())
	d.Register(NewTypingStopHandler())
	d.Register(NewDeliveryHandler())
	d.Register(NewJoinConversationHandler())
	d.Register(NewLeaveConversationHandler())
	d.Register(NewOnlineHandler())
	d.Register(NewAwayHandler())
	d.Register(NewPingHandler())
}
