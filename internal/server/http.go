package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/ipfield/internal/logging"
	"github.com/muurk/ipfield/internal/version"
)

// healthResponse is the body served on /healthz
type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Version  string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:   "ok",
		Sessions: s.GetActiveConnections(),
		Version:  version.Version,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	LogHTTPRequestDetails(r)

	// Upgrade writes the HTTP error response itself on failure
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	s.track(remoteAddr, conn)
	s.wg.Add(1)
	defer func() {
		s.untrack(remoteAddr)
		s.wg.Done()
	}()

	if err := newSession(conn, remoteAddr, s.config.InitialValue).run(); err != nil {
		logging.Error("Session error",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err),
		)
	}
}

// LogHTTPRequestDetails logs the headers of an upgrade request at debug level
func LogHTTPRequestDetails(req *http.Request) {
	headers := make(map[string]string)
	for key, values := range req.Header {
		headers[key] = strings.Join(values, ", ")
	}

	logging.Debug("WebSocket upgrade request",
		zap.String("remote_addr", req.RemoteAddr),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("origin", req.Header.Get("Origin")),
		zap.String("user_agent", req.Header.Get("User-Agent")),
		zap.Any("headers", headers),
	)
}
