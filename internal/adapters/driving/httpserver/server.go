// Package httpserver exposes the connect flows over HTTP: the OAuth
// callback route that serves the picker, the completion endpoint that
// receives envelopes, and the managed-flow iframe page. It doubles as the
// local callback server for CLI-driven flows.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/platform"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/ports/driving"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/logger"
)

// maxEnvelopeBytes bounds the completion POST body.
const maxEnvelopeBytes = 1 << 20

// Config holds configuration for the connect server.
type Config struct {
	// Port to listen on. 0 picks a free port.
	Port int

	// PlatformURL is the managed-platform base URL, used to build iframe
	// URLs and to trust the platform origin on completion posts.
	PlatformURL string
}

// Server routes connect flow traffic to the flow service.
type Server struct {
	Router *chi.Mux

	flow        driving.ConnectService
	platformURL string

	pages sync.Map

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	port     int
}

// NewServer creates a connect server with all routes mounted.
func NewServer(cfg Config, flow driving.ConnectService) *Server {
	s := &Server{
		Router:      chi.NewRouter(),
		flow:        flow,
		platformURL: cfg.PlatformURL,
		port:        cfg.Port,
	}
	s.mountHandlers()
	return s
}

func (s *Server) mountHandlers() {
	s.Router.Use(requestLogger)
	s.Router.Use(s.handleCORS)
	s.Router.Route("/api/vectorize", func(r chi.Router) {
		r.Get("/callback/{provider}", s.handleCallback)
		r.Post("/complete", s.handleComplete)
		r.Get("/managed/{provider}", s.handleManaged)
		r.Get("/picker/{attemptID}", s.handlePicker)
	})
}

// handleCORS allows the managed platform's iframe to post completions.
func (s *Server) handleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*.vectorize.io", "https://vectorize.io", s.platformURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// requestLogger records one debug event per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// handleCallback receives the provider redirect and responds with the
// picker page, or the error page when the flow failed. Always HTML.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body := s.flow.HandleCallback(
		r.Context(),
		q.Get("state"),
		q.Get("code"),
		q.Get("error"),
		q.Get("error_description"),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, body)
}

// handleComplete receives a completion envelope from a picker page or the
// managed-flow iframe host and dispatches it to the pending attempt.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if !s.originAllowed(r) {
		writeJSONError(w, http.StatusForbidden, "origin not allowed")
		return
	}

	var env domain.Envelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEnvelopeBytes)).Decode(&env); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed envelope")
		return
	}

	if err := s.flow.Deliver(env); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleManaged serves the iframe host page for a managed flow. The
// one-time token authorizes the hosted session; an attemptId may be passed
// by callers that already registered an attempt to wait on.
func (s *Server) handleManaged(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	provider, err := domain.ParseProvider(providerName)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	kind := domain.KindConnectComplete
	buildURL := platform.ConnectURL
	if q.Get("mode") == "edit" {
		kind = domain.KindEditComplete
		buildURL = platform.EditURL
	}

	attemptID := q.Get("attemptId")
	if attemptID == "" {
		attempt, err := s.flow.StartManaged(r.Context(), provider, kind)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		attemptID = attempt.ID
	}

	iframeURL, err := buildURL(s.platformURL, q.Get("token"), q.Get("organizationId"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, platform.RenderRedirectPage(platform.RedirectPage{
		IframeURL:     iframeURL,
		CompleteURL:   s.CompleteURL(),
		AttemptID:     attemptID,
		AllowedOrigin: platformOrigin(s.platformURL),
	}))
}

// ServePicker stages a pre-rendered picker page (a selection-only flow
// renders before any browser is involved) and returns the URL to open.
// Pages are served once and dropped.
func (s *Server) ServePicker(attemptID, htmlBody string) string {
	s.pages.Store(attemptID, htmlBody)
	return fmt.Sprintf("%s/api/vectorize/picker/%s", s.BaseURL(), attemptID)
}

func (s *Server) handlePicker(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")
	page, ok := s.pages.LoadAndDelete(attemptID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no staged page for attempt")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, page)
}

// originAllowed accepts same-origin posts (picker pages served by this
// server send no Origin or their own), the managed platform's origin, and
// vectorize.io subdomains.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "null" {
		return true
	}
	if o, err := url.Parse(origin); err == nil && strings.EqualFold(o.Host, r.Host) {
		return true
	}
	return platform.OriginAllowed(origin, s.platformURL)
}

func platformOrigin(platformURL string) string {
	u, err := url.Parse(platformURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Start begins listening. If the configured port is 0, a free port is
// chosen and reported by Port().
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("httpserver: listen failed: %w", err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	s.server = &http.Server{
		Handler:      s.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("connect server stopped")
		}
	}()

	logger.Debug().Int("port", s.port).Msg("connect server listening")
	return nil
}

// Stop shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// BaseURL returns the server's local base URL.
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// CallbackURL returns the redirect URI to register with a provider.
func (s *Server) CallbackURL(provider domain.ProviderType) string {
	return fmt.Sprintf("%s/api/vectorize/callback/%s", s.BaseURL(), provider)
}

// CompleteURL returns the endpoint picker pages post envelopes to.
func (s *Server) CompleteURL() string {
	return s.BaseURL() + "/api/vectorize/complete"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
