// Package mcp exposes the game as Model Context Protocol tools so agents can play it.
// Every tool is keyed by an explicit session_id argument.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pairs"
	"github.com/aretw0/pairs/internal/logging"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/cors"
)

// EnvironmentsURI is the resource listing the catalog.
const EnvironmentsURI = "pairs://environments"

// Engine is the game surface the MCP server drives.
type Engine interface {
	Start(ctx context.Context, sessionID, environment string) (pairs.StartResult, error)
	Flip(ctx context.Context, sessionID string, index int) (domain.FlipResult, error)
	Score(ctx context.Context, sessionID string) (domain.Score, error)
	End(ctx context.Context, sessionID string) error
	Environments() []domain.Environment
}

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

type EnvironmentList struct {
	Environments []domain.Environment `json:"environments" jsonschema_description:"Playable themes in catalog order"`
}

type StartArgs struct {
	SessionID   string `json:"session_id"`
	Environment string `json:"environment"`
}

type StartResponse struct {
	SessionID   string    `json:"session_id" jsonschema_description:"Pass this id to every other tool"`
	Environment string    `json:"environment"`
	DeckSize    int       `json:"deck_size"`
	TimerStart  time.Time `json:"timer_start"`
}

type FlipArgs struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

type SessionArgs struct {
	SessionID string `json:"session_id"`
}

type ScoreResponse struct {
	Moves        int     `json:"moves"`
	ElapsedTime  float64 `json:"elapsed_time"`
	MatchedPairs int     `json:"matched_pairs"`
	TotalPairs   int     `json:"total_pairs"`
	GameComplete bool    `json:"game_complete"`
}

type EndResponse struct {
	SessionID string `json:"session_id"`
	Ended     bool   `json:"ended"`
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for transport messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("pairs-mcp", strings.TrimSpace(pairs.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: cors.AllowAll().Handler(mux),
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_environments",
		mcp.WithDescription("List the card themes a game can be started with."),
		mcp.WithOutputSchema[EnvironmentList](),
	), mcp.NewStructuredToolHandler(s.handleListEnvironments))

	s.mcpServer.AddTool(mcp.NewTool("start_game",
		mcp.WithDescription("Deal a new shuffled deck. Replaces any game already held by the session."),
		mcp.WithString("session_id", mcp.Description("Session to (re)start. A new id is created when omitted.")),
		mcp.WithString("environment", mcp.Description("Theme name from list_environments (default: fruits)")),
		mcp.WithOutputSchema[StartResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("flip_card",
		mcp.WithDescription("Turn a card face up. Every second flip compares the two face-up cards."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based card position")),
		mcp.WithOutputSchema[domain.FlipResult](),
	), mcp.NewStructuredToolHandler(s.handleFlip))

	s.mcpServer.AddTool(mcp.NewTool("get_score",
		mcp.WithDescription("Report moves, elapsed seconds and matched pairs."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithOutputSchema[ScoreResponse](),
	), mcp.NewStructuredToolHandler(s.handleScore))

	s.mcpServer.AddTool(mcp.NewTool("end_game",
		mcp.WithDescription("Discard the session's game."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithOutputSchema[EndResponse](),
	), mcp.NewStructuredToolHandler(s.handleEnd))
}

func (s *Server) handleListEnvironments(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EnvironmentList, error) {
	return EnvironmentList{Environments: s.engine.Environments()}, nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (StartResponse, error) {
	sessionID := strings.TrimSpace(args.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	res, err := s.engine.Start(ctx, sessionID, args.Environment)
	if err != nil {
		return StartResponse{}, playerError(err)
	}
	return StartResponse{
		SessionID:   sessionID,
		Environment: res.Environment,
		DeckSize:    res.DeckSize,
		TimerStart:  res.StartedAt,
	}, nil
}

func (s *Server) handleFlip(ctx context.Context, request mcp.CallToolRequest, args FlipArgs) (domain.FlipResult, error) {
	res, err := s.engine.Flip(ctx, args.SessionID, args.Index)
	if err != nil {
		return domain.FlipResult{}, playerError(err)
	}
	return res, nil
}

func (s *Server) handleScore(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (ScoreResponse, error) {
	score, err := s.engine.Score(ctx, args.SessionID)
	if err != nil {
		return ScoreResponse{}, playerError(err)
	}
	return ScoreResponse{
		Moves:        score.Moves,
		ElapsedTime:  score.Elapsed.Seconds(),
		MatchedPairs: score.MatchedPairs,
		TotalPairs:   score.TotalPairs,
		GameComplete: score.Complete,
	}, nil
}

func (s *Server) handleEnd(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (EndResponse, error) {
	if err := s.engine.End(ctx, args.SessionID); err != nil {
		return EndResponse{}, playerError(err)
	}
	return EndResponse{SessionID: args.SessionID, Ended: true}, nil
}

// playerError keeps the wrapped error but shows the player-facing text first.
func playerError(err error) error {
	if msg, ok := domain.PlayerMessage(err); ok {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(EnvironmentsURI, "Card themes",
		mcp.WithResourceDescription("Every environment with its symbols and colors"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Environments())
		if err != nil {
			return nil, errors.Join(errors.New("failed to encode environments"), err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      EnvironmentsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
