package relay

// Handler processes one named client event.
type Handler interface {
	Event() string
	Handle(ctx *Context, f *Frame, c *Conn) error
}

type Context struct {
	S *Server
}
