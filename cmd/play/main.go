// Local playtest REPL for the adventure engine. Runs the same session
// engine the voice host drives, without speech or MCP in the loop.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"gamemaster/cmd/play/ui"
	"gamemaster/internal/config"
	"gamemaster/internal/llm"
	"gamemaster/internal/logging"
	"gamemaster/internal/narrate"
	"gamemaster/internal/resolve"
	"gamemaster/internal/session"
	"gamemaster/internal/world"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "review", "--review":
			runReviewMode()
			return
		}
	}

	model, cleanup, err := createApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "play: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
	}
}

func createApp() (ui.Model, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return ui.Model{}, nil, err
	}

	logFile, err := os.OpenFile("play.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("open log file: %w", err)
	}
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(logFile).Level(level).With().Timestamp().Logger()

	graph, err := loadWorld(cfg)
	if err != nil {
		return ui.Model{}, nil, err
	}

	audit, err := logging.NewResolutionLog(cfg.ResolutionLogPath)
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("open resolution log: %w", err)
	}

	var fallback resolve.ChoiceResolver
	if cfg.OpenAIAPIKey != "" {
		fallback = llm.NewService(cfg.OpenAIAPIKey, cfg.ResolverModel, log)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set; semantic fallback disabled")
	}

	resolver := resolve.NewPipeline(fallback, cfg.ResolveTimeout, audit, log)
	composer := narrate.NewComposer(graph)
	engine := session.NewEngine(graph, resolver, composer, log)

	cleanup := func() {
		audit.Close()
		logFile.Close()
	}

	return ui.NewModel(engine, cfg.Debug), cleanup, nil
}

func loadWorld(cfg config.Config) (*world.Graph, error) {
	if cfg.WorldPath != "" {
		return world.LoadFile(cfg.WorldPath)
	}
	return world.LoadDefault()
}

func runReviewMode() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	audit, err := logging.NewResolutionLog(cfg.ResolutionLogPath)
	if err != nil {
		fmt.Printf("Failed to open resolution database: %v\n", err)
		return
	}
	defer audit.Close()

	records, err := audit.Recent(10)
	if err != nil {
		fmt.Printf("Failed to get resolutions: %v\n", err)
		return
	}

	if len(records) == 0 {
		fmt.Println("No fallback resolutions found. Play the game first to generate data!")
		return
	}

	fmt.Printf("Recent fallback resolutions (%d):\n\n", len(records))
	for _, rec := range records {
		key := rec.ResolvedKey
		if key == "" {
			key = "-"
		}
		fmt.Printf("[%d] %s | %s | %v | %q -> %s\n",
			rec.ID,
			rec.Timestamp.Format("15:04:05"),
			rec.Outcome,
			rec.Latency,
			rec.Utterance,
			key)
		if rec.Error != "" {
			fmt.Printf("    error: %s\n", rec.Error)
		}
	}
}
