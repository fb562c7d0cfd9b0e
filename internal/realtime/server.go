package realtime

import (
	"context"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// Server exposes the hub over a dedicated WebSocket listener. Clients connect
// with a bearer token query parameter because browsers cannot set headers on
// WebSocket upgrades.
type Server struct {
	hub    *Hub
	tokens *auth.TokenManager
	logger *zap.Logger
	srv    *http.Server

	upgrader ws.Upgrader
}

// NewServer builds the WebSocket server.
func NewServer(hub *Hub, tokens *auth.TokenManager, logger *zap.Logger) *Server {
	return &Server{
		hub:    hub,
		tokens: tokens,
		logger: logger,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard SPA is served from another origin in development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if _, err := s.tokens.ParseToken(token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.Serve(conn)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("websocket server listening", zap.String("addr", addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting upgrades and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
