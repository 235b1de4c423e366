package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osamagivegh-hash/booking4u-sub002/global/config"
	"github.com/osamagivegh-hash/booking4u-sub002/middleware"
	"github.com/osamagivegh-hash/booking4u-sub002/service/identity"
	"github.com/osamagivegh-hash/booking4u-sub002/service/storage"
)

// Server ties the relay together: registry, presence, router, dispatcher,
// authentication gate and the HTTP/WebSocket surface.
type Server struct {
	cfg      *config.AppConfig
	reg      *Registry
	presence *Presence
	router   *Router
	disp     *Dispatcher
	auth     *Authenticator
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.AppConfig, dir identity.Directory, mirror *storage.PresenceMirror) *Server {
	reg := NewRegistry()
	s := &Server{
		cfg:      cfg,
		reg:      reg,
		presence: NewPresence(reg, mirror),
		router:   NewRouter(reg),
		disp:     NewDispatcher(),
		auth:     NewAuthenticator([]byte(cfg.JWTSecret), dir, cfg.AuthTimeout),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		HandshakeTimeout:  cfg.HandshakeTimeout,
		EnableCompression: cfg.EnableCompression,
		CheckOrigin:       s.checkOrigin,
	}
	return s
}

func (s *Server) Registry() *Registry     { return s.reg }
func (s *Server) Presence() *Presence     { return s.presence }
func (s *Server) Router() *Router         { return s.router }
func (s *Server) Dispatcher() *Dispatcher { return s.disp }

// checkOrigin enforces the externally supplied allow-list. Non-browser
// clients send no Origin header and are allowed through; the token gate is
// what actually authenticates them.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return middleware.OriginAllowed(s.cfg.AllowedOrigins, origin)
}

// Engine builds the HTTP surface: the websocket endpoint plus health,
// presence stats and Prometheus metrics.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Origin(s.cfg.AllowedOrigins))

	r.GET("/ws", s.HandleWS)
	r.GET("/healthz", s.handleHealth)
	r.GET("/stats", s.handleStats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": s.reg.Size()})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.presence.Stats())
}
