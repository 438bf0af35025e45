// Package session owns one player's progress through the world graph
// and the turn machinery that advances it.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gamemaster/internal/narrate"
	"gamemaster/internal/world"
)

// ActionResolver maps an utterance onto one of the scene's choices, or
// reports that nothing matched. It must not mutate anything.
type ActionResolver interface {
	Resolve(ctx context.Context, scene *world.Scene, utterance string) (string, bool)
}

const clarification = "I need a clearer action to move the story forward. Please choose one of the options I presented, " +
	"or use a very simple phrase related to the options, like 'take the map' or 'descend'."

// Engine exposes the session operations the host runtime drives. One
// engine owns one State; the host serializes turns, so the engine does
// no locking of its own.
type Engine struct {
	graph    *world.Graph
	resolver ActionResolver
	composer *narrate.Composer
	state    *State
	log      zerolog.Logger
}

func NewEngine(graph *world.Graph, resolver ActionResolver, composer *narrate.Composer, log zerolog.Logger) *Engine {
	return &Engine{
		graph:    graph,
		resolver: resolver,
		composer: composer,
		state:    NewState(graph.Entry()),
		log:      log,
	}
}

// State exposes the session record for inspection. Callers must treat
// it as read-only.
func (e *Engine) State() *State {
	return e.state
}

// Start resets the session and greets the player by name.
func (e *Engine) Start(playerName string) string {
	if playerName != "" {
		e.state.PlayerName = playerName
	}
	e.state.Reset(e.graph.Entry())

	name := e.state.PlayerName
	if name == "" {
		name = "traveler"
	}
	entry, _ := e.graph.Scene(e.graph.Entry())

	e.log.Info().Str("session", e.state.SessionID).Str("player", name).Msg("adventure started")

	return fmt.Sprintf("Greetings %s. Welcome to '%s'. A new adventure begins now.\n\n%s",
		name, entry.Title, e.composer.RenderScene(e.graph.Entry(), e.state))
}

// Restart resets the session with the same semantics as Start, framed
// as the world itself resetting.
func (e *Engine) Restart() string {
	e.state.Reset(e.graph.Entry())

	e.log.Info().Str("session", e.state.SessionID).Msg("adventure restarted")

	return "The world resets. A new tide laps at the shore. You stand once more at the beginning.\n\n" +
		e.composer.RenderScene(e.graph.Entry(), e.state)
}

// CurrentScene renders the current scene without mutating anything.
func (e *Engine) CurrentScene() string {
	return e.composer.RenderScene(e.state.CurrentScene, e.state)
}

// PlayerAction resolves the utterance against the current scene's
// choices and, only on success, commits the transition: effects,
// history entry, choice record, and scene change land together.
// An unresolved action leaves the state untouched and returns a
// clarification that re-displays the scene.
func (e *Engine) PlayerAction(ctx context.Context, action string) string {
	sceneID := e.state.CurrentScene
	scene, ok := e.graph.Scene(sceneID)
	if !ok {
		// CurrentScene always holds a validated graph key; a miss means
		// the record predates the loaded world, so fall back to a reset.
		return e.Restart()
	}

	choiceID, resolved := e.resolver.Resolve(ctx, scene, action)
	if !resolved {
		e.log.Info().Str("session", e.state.SessionID).Str("scene", sceneID).Str("utterance", action).Msg("action unresolved")
		return clarification + "\n\n" + e.composer.RenderScene(sceneID, e.state)
	}

	choice, ok := scene.Choice(choiceID)
	if !ok {
		// The resolver only answers with ids from the scene it was
		// given; treat anything else as unresolved.
		e.log.Error().Str("session", e.state.SessionID).Str("choice", choiceID).Msg("resolver returned a choice outside the scene")
		return clarification + "\n\n" + e.composer.RenderScene(sceneID, e.state)
	}

	ApplyEffects(choice.Effects, e.state)
	e.state.History = append(e.state.History, HistoryEntry{
		From:   sceneID,
		Action: choice.ID,
		To:     choice.ResultScene,
		Time:   time.Now().UTC(),
	})
	e.state.ChoicesMade = append(e.state.ChoicesMade, choice.ID)
	e.state.CurrentScene = choice.ResultScene

	e.log.Info().
		Str("session", e.state.SessionID).
		Str("from", sceneID).
		Str("choice", choice.ID).
		Str("to", choice.ResultScene).
		Msg("transition")

	return e.composer.RenderTransition(choice) + "\n\n" + e.composer.RenderScene(choice.ResultScene, e.state)
}

// recentHistoryLimit caps how many transitions the journal displays.
const recentHistoryLimit = 6

// Journal renders session metadata, journal entries, inventory, and the
// most recent transitions, oldest first.
func (e *Engine) Journal() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Session: %s | Started at: %s", e.state.SessionID, e.state.StartedAt.Format(time.RFC3339)))
	if e.state.PlayerName != "" {
		lines = append(lines, fmt.Sprintf("Player: %s", e.state.PlayerName))
	}

	if len(e.state.Journal) > 0 {
		lines = append(lines, "\nJournal entries:")
		for _, entry := range e.state.Journal {
			lines = append(lines, "- "+entry)
		}
	} else {
		lines = append(lines, "\nJournal is empty.")
	}

	if len(e.state.Inventory) > 0 {
		lines = append(lines, "\nInventory:")
		for _, item := range e.state.Inventory {
			lines = append(lines, "- "+item)
		}
	} else {
		lines = append(lines, "\nNo items in inventory.")
	}

	lines = append(lines, "\nRecent choices:")
	history := e.state.History
	if len(history) > recentHistoryLimit {
		history = history[len(history)-recentHistoryLimit:]
	}
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("- %s | from %s -> %s via %s", h.Time.Format(time.RFC3339), h.From, h.To, h.Action))
	}

	lines = append(lines, "\n"+narrate.PromptMarker)
	return strings.Join(lines, "\n")
}
