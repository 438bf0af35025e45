// Package mcp exposes the session engine to the host conversational
// runtime as an MCP tool server. The host delivers transcribed player
// speech through player_action and vocalizes whatever text comes back,
// so every tool result is plain narrative prose.
package mcp

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"gamemaster/internal/session"
)

const (
	serverName    = "Voice Game Master"
	serverVersion = "0.1.0"
)

type Server struct {
	mcpServer *mcp.Server
	engine    *session.Engine
	log       zerolog.Logger

	// The host serializes turns per conversation; the mutex keeps a
	// misbehaving client from interleaving mutations anyway.
	mu sync.Mutex
}

func NewServer(engine *session.Engine, log zerolog.Logger) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		engine:    engine,
		log:       log,
	}
	s.registerTools()
	return s
}

// Run serves the tools over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Msg("serving game master tools over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
