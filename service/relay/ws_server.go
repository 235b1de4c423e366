package relay

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/osamagivegh-hash/booking4u-sub002/logger"
	"github.com/osamagivegh-hash/booking4u-sub002/service/identity"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/errs"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/ids"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/safe"
)

// HandleWS upgrades an HTTP request and runs the connection to completion.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// usually a non-websocket request or a failed handshake
		logger.Warnf("[ws] upgrade error: %v", err)
		return
	}
	s.serveConn(ws)
}

func (s *Server) serveConn(ws *websocket.Conn) {
	defer closeQuiet(ws)

	if s.cfg.MaxPayloadBytes > 0 {
		ws.SetReadLimit(s.cfg.MaxPayloadBytes)
	}

	profile, err := s.handshake(ws)
	if err != nil {
		s.reject(ws, err)
		return
	}

	conn := newConn(ids.GenerateString(), *profile, ws, s.cfg.WriteTimeout, time.Now())
	ws.SetPongHandler(func(string) error {
		conn.Touch()
		return ws.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
	})

	s.presence.Register(conn)

	stopPing := make(chan struct{})
	safe.Go(func() { s.pingLoop(ws, conn.ID, stopPing) })

	reason := s.readLoop(conn, ws)

	close(stopPing)
	s.presence.Deregister(conn.ID, reason)
}

// handshake reads the first client message, which must carry the bearer
// token, and authenticates it. Nothing else is accepted before this.
func (s *Server) handshake(ws *websocket.Conn) (*identity.Profile, error) {
	_ = ws.SetReadDeadline(time.Now().Add(s.cfg.AuthTimeout))
	_, raw, err := ws.ReadMessage()
	if err != nil {
		return nil, errs.ErrAuthRequired.WithDetail("no handshake: " + err.Error())
	}

	var h Handshake
	// a malformed handshake counts as a missing token
	_ = json.Unmarshal(raw, &h)

	return s.auth.Authenticate(context.Background(), h.Token)
}

// reject emits the client-visible reason and closes without ever reaching
// the registered state.
func (s *Server) reject(ws *websocket.Conn, err error) {
	reason := "internal"
	message := "authentication failed"
	if ce := errs.AsCodeError(err); ce != nil {
		reason = ce.Msg
		message = ce.Msg
	}
	authFailures.WithLabelValues(reason).Inc()
	logger.Warn("connection rejected", zap.String("reason", reason), zap.Error(err))

	deadline := time.Now().Add(s.cfg.WriteTimeout)
	_ = ws.SetWriteDeadline(deadline)
	_ = ws.WriteJSON(outFrame{Event: EventError, Data: ErrorPayload{Message: message}})
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message), deadline)
}

// readLoop pumps client frames into the dispatcher until the transport
// dies. Payload and dispatch errors are answered on this connection only;
// they never tear the connection down or leak to other connections.
func (s *Server) readLoop(conn *Conn, ws *websocket.Conn) (reason string) {
	for {
		_ = ws.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		mt, raw, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s err=%v", conn.ID, rerr)
				return "peer closed"
			}
			if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] idle timeout conn=%s err=%v", conn.ID, rerr)
				return "idle timeout"
			}
			logger.Infof("[ws] read error conn=%s err=%v", conn.ID, rerr)
			return "transport error"
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(raw)
		if perr != nil {
			sample := raw
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[ws] bad frame conn=%s err=%v sample=%q", conn.ID, perr, sample)
			_ = conn.Emit(EventError, ErrorPayload{Message: errs.ErrBadPayload.Msg})
			continue
		}

		conn.Touch()
		if derr := s.disp.Dispatch(&Context{S: s}, frame, conn); derr != nil {
			logger.Warnf("[ws] event %s failed conn=%s user=%s err=%v",
				frame.Event, conn.ID, conn.UserID, derr)
			_ = conn.Emit(EventError, ErrorPayload{Message: clientMessage(derr)})
		}
	}
}

// pingLoop keeps the transport alive independently of application-level
// ping events; pongs refresh the read deadline via the pong handler.
func (s *Server) pingLoop(ws *websocket.Conn, connID string, stop <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte("ping"),
				time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				logger.Infof("[ws] ping failed conn=%s err=%v", connID, err)
				return
			}
		}
	}
}

func clientMessage(err error) string {
	if ce := errs.AsCodeError(err); ce != nil {
		if ce.Detail != "" {
			return ce.Msg + ": " + ce.Detail
		}
		return ce.Msg
	}
	return "internal error"
}

func closeQuiet(ws *websocket.Conn) {
	if ws != nil {
		_ = ws.Close()
	}
}
