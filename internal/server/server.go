// Package server exposes watch-mode results over HTTP: a small status page,
// JSON endpoints and a websocket pushing every fresh snapshot.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"tellocheck/internal/metrics"
	"tellocheck/internal/monitor"
	"tellocheck/internal/storage"
)

//go:embed static/*
var embeddedStatic embed.FS

const liveWriteTimeout = 5 * time.Second

var liveUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// Server wraps HTTP serving of API + static assets.
type Server struct {
	httpServer   *http.Server
	monitor      *monitor.Monitor
	storage      *storage.SnapshotStorage
	staticFS     fs.FS
	historyLimit int
}

// New creates a configured HTTP server for watch mode.
func New(addr string, mon *monitor.Monitor, store *storage.SnapshotStorage) *Server {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer:   &http.Server{Addr: addr, Handler: mux},
		monitor:      mon,
		storage:      store,
		staticFS:     staticFS,
		historyLimit: 200,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := fs.ReadFile(s.staticFS, "index.html")
		if err != nil {
			http.Error(w, "index missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}))
	mux.HandleFunc("/api/status", s.handleLatest)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/uptime", s.handleUptime)
	mux.HandleFunc("/api/live", s.handleLive)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.monitor.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"timestamp": nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	writeJSON(w, http.StatusOK, s.storage.HistoryN(limit))
}

func (s *Server) handleUptime(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	writeJSON(w, http.StatusOK, metrics.ComputeProbeUptime(s.storage.HistoryN(limit)))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.serveLiveConnection(conn)
}

func (s *Server) serveLiveConnection(conn *websocket.Conn) {
	defer conn.Close()

	if snap, ok := s.monitor.Latest(); ok {
		if err := writeLivePayload(conn, snap); err != nil {
			return
		}
	}

	updates, cancel := s.monitor.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, open := <-updates:
			if !open {
				return
			}
			if err := writeLivePayload(conn, snap); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeLivePayload(conn *websocket.Conn, payload any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return conn.WriteJSON(payload)
}

func parseLimit(r *http.Request, fallback int) int {
	if fallback <= 0 {
		return fallback
	}
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > fallback {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
