// Voice Game Master engine. Serves the adventure session tools over
// MCP stdio to a host conversational runtime, which handles speech
// recognition, synthesis, and turn taking.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"gamemaster/internal/config"
	"gamemaster/internal/llm"
	"gamemaster/internal/logging"
	"gamemaster/internal/mcp"
	"gamemaster/internal/narrate"
	"gamemaster/internal/observability"
	"gamemaster/internal/resolve"
	"gamemaster/internal/session"
	"gamemaster/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gamemaster: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Stdout carries the MCP transport; all logging goes to stderr.
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := observability.InitTracing(ctx, observability.LoadConfigFromEnv())
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize tracing")
	} else {
		defer tracerProvider.Shutdown(context.Background())
		if tracerProvider.IsEnabled() {
			log.Info().Msg("OpenTelemetry tracing enabled")
		}
	}

	graph, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	log.Info().Int("scenes", len(graph.Scenes())).Str("entry", graph.Entry()).Msg("world loaded")

	audit, err := logging.NewResolutionLog(cfg.ResolutionLogPath)
	if err != nil {
		return fmt.Errorf("open resolution log: %w", err)
	}
	defer audit.Close()

	var fallback resolve.ChoiceResolver
	if cfg.OpenAIAPIKey != "" {
		fallback = llm.NewService(cfg.OpenAIAPIKey, cfg.ResolverModel, log)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set; semantic fallback disabled, deterministic matching only")
	}

	resolver := resolve.NewPipeline(fallback, cfg.ResolveTimeout, audit, log)
	composer := narrate.NewComposer(graph)
	engine := session.NewEngine(graph, resolver, composer, log)

	return mcp.NewServer(engine, log).Run(ctx)
}

func loadWorld(cfg config.Config) (*world.Graph, error) {
	if cfg.WorldPath != "" {
		return world.LoadFile(cfg.WorldPath)
	}
	return world.LoadDefault()
}
