package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gamemaster/internal/observability"
)

type startAdventureInput struct {
	PlayerName string `json:"player_name,omitempty" jsonschema:"optional player name used in the greeting"`
}

type playerActionInput struct {
	Action string `json:"action" jsonschema:"the player's spoken action, already transcribed to plain text"`
}

type emptyInput struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_adventure",
		Description: "Initialize a new adventure session for the player and return the opening description.",
	}, s.startAdventure)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_scene",
		Description: "Return the current scene description (useful for 'remind me where I am').",
	}, s.getScene)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "player_action",
		Description: "Accept the player's spoken action, resolve it to one of the scene's choices, advance the story, and return the next description.",
	}, s.playerAction)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "show_journal",
		Description: "Show the session's journal entries, inventory, and recent choices.",
	}, s.showJournal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "restart_adventure",
		Description: "Reset the session and start the adventure again.",
	}, s.restartAdventure)
}

func (s *Server) startAdventure(ctx context.Context, req *mcp.CallToolRequest, in startAdventureInput) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return textResult(s.engine.Start(in.PlayerName)), nil, nil
}

func (s *Server) getScene(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return textResult(s.engine.CurrentScene()), nil, nil
}

func (s *Server) playerAction(ctx context.Context, req *mcp.CallToolRequest, in playerActionInput) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = observability.WithSessionID(ctx, s.engine.State().SessionID)
	return textResult(s.engine.PlayerAction(ctx, in.Action)), nil, nil
}

func (s *Server) showJournal(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return textResult(s.engine.Journal()), nil, nil
}

func (s *Server) restartAdventure(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return textResult(s.engine.Restart()), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
