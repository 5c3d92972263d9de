// Package server exposes the analysis pipeline and result store over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/zipsift/zipsift/analyze"
	"github.com/zipsift/zipsift/internal/resultstore"
)

// Config configures the server.
type Config struct {
	Addr            string
	MaxUploadBytes  int64
	EnableWebSocket bool
	Version         string
	Logger          analyze.Logger
}

// DefaultMaxUploadBytes caps uploads at 200 MiB unless overridden.
const DefaultMaxUploadBytes int64 = 200 * 1024 * 1024

// Server serves archive analysis over HTTP.
type Server struct {
	analyzer   *analyze.Analyzer
	store      *resultstore.Store
	config     *Config
	logger     analyze.Logger
	startTime  time.Time
	hub        *hub
	httpServer *http.Server
}

// New creates a new HTTP server around an analyzer and a result store.
func New(analyzer *analyze.Analyzer, store *resultstore.Store, config *Config) *Server {
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	logger := config.Logger
	if logger == nil {
		logger = analyze.NewDefaultLogger()
	}

	s := &Server{
		analyzer:  analyzer,
		store:     store,
		config:    config,
		logger:    logger,
		startTime: time.Now(),
	}

	if config.EnableWebSocket {
		s.hub = newHub(logger)
		go s.hub.run()
	}

	s.httpServer = &http.Server{
		Addr:    config.Addr,
		Handler: s.Handler(),
	}

	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.close()
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler with all routes. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze())
	mux.HandleFunc("GET /download/{token}", s.handleDownload())
	mux.HandleFunc("GET /status", s.handleStatus())

	if s.config.EnableWebSocket {
		mux.HandleFunc("GET /ws", s.handleWebSocket())
	}

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			sendJSON(w, 404, map[string]string{"error": "not found"})
			return
		}
		s.handleRoot()(w, r)
	})

	return withCORS(mux)
}
