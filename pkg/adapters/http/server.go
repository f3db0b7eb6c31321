// Package http serves the game over JSON endpoints, a browser client and an SSE
// event stream. Players are identified by a signed session cookie.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pairs"
	"github.com/aretw0/pairs/api"
	"github.com/aretw0/pairs/internal/logging"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/aretw0/pairs/web"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Engine is the game surface the server drives.
type Engine interface {
	Start(ctx context.Context, sessionID, environment string) (pairs.StartResult, error)
	Flip(ctx context.Context, sessionID string, index int) (domain.FlipResult, error)
	Score(ctx context.Context, sessionID string) (domain.Score, error)
	End(ctx context.Context, sessionID string) error
	Environments() []domain.Environment
	Catalog() *domain.Catalog
}

// Server holds the handlers. Build it with NewServer.
type Server struct {
	engine   Engine
	codec    *SessionCodec
	streams  *StreamManager
	pages    *pageRenderer
	doc      *openapi3.T
	gatherer prometheus.Gatherer
	validate bool
	origins  []string
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionCodec sets how session cookies are signed. Defaults to a development
// secret with a 24h lifetime.
func WithSessionCodec(codec *SessionCodec) Option {
	return func(s *Server) {
		s.codec = codec
	}
}

// WithStreams shares a StreamManager whose Hooks are registered on the engine.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		s.streams = streams
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithValidation toggles OpenAPI request validation (on by default).
func WithValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// WithAllowedOrigins restricts CORS to origins and allows credentials.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// NewServer loads the embedded OpenAPI document and page templates.
func NewServer(engine Engine, opts ...Option) (*Server, error) {
	s := &Server{
		engine:   engine,
		validate: true,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = NewSessionCodec("pairs-dev-secret", 24*time.Hour, nil)
	}
	if s.streams == nil {
		s.streams = NewStreamManager(s.logger)
	}

	doc, err := api.Load()
	if err != nil {
		return nil, err
	}
	s.doc = doc

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	s.pages = &pageRenderer{tmpl: tmpl}
	return s, nil
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s, err := NewServer(engine, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler()
}

// Handler builds the router.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	var validator func(http.Handler) http.Handler
	if s.validate {
		v, err := RequestValidator(s.doc)
		if err != nil {
			return nil, err
		}
		validator = v
	}

	gameRoutes := func(r chi.Router) {
		r.Post("/start_game", s.StartGame)
		r.Post("/flip_card", s.FlipCard)
		r.Get("/get_score", s.GetScore)
	}

	r.Group(func(r chi.Router) {
		if validator != nil {
			r.Use(validator)
		}
		gameRoutes(r)
		r.Route("/api", func(r chi.Router) {
			gameRoutes(r)
			r.Delete("/game", s.EndGame)
			r.Get("/environments", s.ListEnvironments)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Spec)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.Welcome)
	r.Get("/environment", s.ChooseEnvironment)
	r.Get("/index", s.GamePage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	return s.cors().Handler(r), nil
}

func (s *Server) cors() *cors.Cors {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	}
	if len(s.origins) > 0 {
		opts.AllowedOrigins = s.origins
		opts.AllowCredentials = true
	}
	return cors.New(opts)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"duration", time.Since(start),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

type startRequest struct {
	Environment string `json:"environment"`
}

type startResponse struct {
	Message     string    `json:"message"`
	Environment string    `json:"environment"`
	DeckSize    int       `json:"deck_size"`
	TimerStart  time.Time `json:"timer_start"`
}

type flipRequest struct {
	Index *int `json:"index"`
}

type scoreResponse struct {
	Moves        int     `json:"moves"`
	ElapsedTime  float64 `json:"elapsed_time"`
	MatchedPairs int     `json:"matched_pairs"`
	TotalPairs   int     `json:"total_pairs"`
	GameComplete bool    `json:"game_complete"`
}

type environmentSummary struct {
	Name        string        `json:"name"`
	Pairs       int           `json:"pairs"`
	Description string        `json:"description,omitempty"`
	Colors      domain.Colors `json:"colors"`
}

// decodeBody reads an optional JSON body into v.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// StartGame handles POST /start_game.
func (s *Server) StartGame(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("StartGame: Invalid request body", "err", err)
		return
	}

	sessionID, err := s.codec.SessionID(r)
	if err != nil {
		sessionID = NewSessionID()
	}

	res, err := s.engine.Start(r.Context(), sessionID, body.Environment)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if err := s.codec.SetCookie(w, sessionID); err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, startResponse{
		Message:     "Game started!",
		Environment: res.Environment,
		DeckSize:    res.DeckSize,
		TimerStart:  res.StartedAt,
	})
}

// FlipCard handles POST /flip_card.
func (s *Server) FlipCard(w http.ResponseWriter, r *http.Request) {
	var body flipRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("FlipCard: Invalid request body", "err", err)
		return
	}
	if body.Index == nil {
		s.writeEngineError(w, r, domain.ErrInvalidIndex)
		return
	}

	sessionID, err := s.codec.SessionID(r)
	if err != nil {
		s.writeEngineError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidIndex, err))
		return
	}

	res, err := s.engine.Flip(r.Context(), sessionID, *body.Index)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetScore handles GET /get_score.
func (s *Server) GetScore(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.codec.SessionID(r)
	if err != nil {
		s.writeEngineError(w, r, domain.ErrNotStarted)
		return
	}

	score, err := s.engine.Score(r.Context(), sessionID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		Moves:        score.Moves,
		ElapsedTime:  score.Elapsed.Seconds(),
		MatchedPairs: score.MatchedPairs,
		TotalPairs:   score.TotalPairs,
		GameComplete: score.Complete,
	})
}

// EndGame handles DELETE /api/game.
func (s *Server) EndGame(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.codec.SessionID(r)
	if err == nil {
		if err := s.engine.End(r.Context(), sessionID); err != nil {
			s.writeEngineError(w, r, err)
			return
		}
	}
	s.codec.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// ListEnvironments handles GET /api/environments.
func (s *Server) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	envs := s.engine.Environments()
	resp := make([]environmentSummary, 0, len(envs))
	for _, env := range envs {
		resp = append(resp, environmentSummary{
			Name:        env.Name,
			Pairs:       env.Pairs(),
			Description: env.Description,
			Colors:      env.Colors,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles GET /api/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.codec.SessionID(r)
	if err != nil {
		s.writeEngineError(w, r, domain.ErrNotStarted)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()
	s.logger.Debug("SSE: Subscribed", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: Client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc != nil && s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "pairs-http",
		"version":     strings.TrimSpace(pairs.Version),
		"api_version": apiVersion,
	})
}
