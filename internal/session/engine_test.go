package session

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster/internal/narrate"
	"gamemaster/internal/resolve"
	"gamemaster/internal/world"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	graph, err := world.LoadDefault()
	require.NoError(t, err)

	resolver := resolve.NewPipeline(nil, time.Second, nil, zerolog.Nop())
	composer := narrate.NewComposer(graph)
	return NewEngine(graph, resolver, composer, zerolog.Nop())
}

// snapshot captures the full state for before/after comparisons.
func snapshot(s *State) string {
	return fmt.Sprintf("%+v", *s)
}

func TestStartGreetsAndResets(t *testing.T) {
	e := newTestEngine(t)

	out := e.Start("Rhea")

	assert.Contains(t, out, "Greetings Rhea. Welcome to 'A Shadow over Brinmere'.")
	assert.True(t, strings.HasSuffix(out, narrate.PromptMarker))
	assert.Equal(t, "intro", e.State().CurrentScene)
	assert.Empty(t, e.State().History)
	assert.Empty(t, e.State().Journal)
	assert.Empty(t, e.State().Inventory)
	assert.Empty(t, e.State().ChoicesMade)
	assert.NotEmpty(t, e.State().SessionID)
}

func TestStartWithoutNameGreetsTraveler(t *testing.T) {
	e := newTestEngine(t)

	out := e.Start("")

	assert.Contains(t, out, "Greetings traveler.")
}

func TestPlayerActionCommitsTransition(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")

	out := e.PlayerAction(context.Background(), "inspect the box")

	require.Equal(t, "box", e.State().CurrentScene)
	require.Len(t, e.State().History, 1)
	entry := e.State().History[0]
	assert.Equal(t, "intro", entry.From)
	assert.Equal(t, "inspect_box", entry.Action)
	assert.Equal(t, "box", entry.To)
	assert.False(t, entry.Time.IsZero())
	assert.Equal(t, []string{"inspect_box"}, e.State().ChoicesMade)
	assert.True(t, strings.HasSuffix(out, narrate.PromptMarker))
}

func TestPlayerActionAppliesEffects(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")

	e.PlayerAction(context.Background(), "inspect_box")
	e.PlayerAction(context.Background(), "take_map")

	assert.Equal(t, "tower_approach", e.State().CurrentScene)
	assert.Equal(t, []string{"Found map fragment: 'Beneath the tower, the latch sings.'"}, e.State().Journal)
}

func TestUnresolvedActionLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")
	e.PlayerAction(context.Background(), "inspect_box")

	before := snapshot(e.State())
	out := e.PlayerAction(context.Background(), "recite ancient poetry")
	after := snapshot(e.State())

	assert.Equal(t, before, after)
	assert.Contains(t, out, "I need a clearer action to move the story forward.")
	// The clarification re-displays the current scene's choices.
	assert.Contains(t, out, "Take the map and keep it.")
	assert.True(t, strings.HasSuffix(out, narrate.PromptMarker))
}

func TestChoiceOutsideCurrentSceneIsUnresolved(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")

	before := snapshot(e.State())
	out := e.PlayerAction(context.Background(), "take_map")

	assert.Equal(t, before, snapshot(e.State()))
	assert.Contains(t, out, "I need a clearer action")
}

func TestRestartResetsEverything(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")
	e.PlayerAction(context.Background(), "inspect_box")
	e.PlayerAction(context.Background(), "take_map")
	oldID := e.State().SessionID

	out := e.Restart()

	assert.Contains(t, out, "The world resets.")
	assert.Equal(t, "intro", e.State().CurrentScene)
	assert.Empty(t, e.State().History)
	assert.Empty(t, e.State().Journal)
	assert.Empty(t, e.State().Inventory)
	assert.Empty(t, e.State().ChoicesMade)
	assert.NotEqual(t, oldID, e.State().SessionID)
	assert.Equal(t, "Rhea", e.State().PlayerName, "the player name survives a restart")
}

func TestCurrentSceneBeforeStart(t *testing.T) {
	e := newTestEngine(t)

	// No start yet; the session defaults to the entry scene.
	out := e.CurrentScene()

	assert.Contains(t, out, "You awake on the damp shore of Brinmere")
	assert.True(t, strings.HasSuffix(out, narrate.PromptMarker))
}

func TestCurrentSceneDoesNotMutate(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")

	before := snapshot(e.State())
	e.CurrentScene()

	assert.Equal(t, before, snapshot(e.State()))
}

func TestJournalRendersMetadataAndRecentHistory(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")

	// Bounce between intro and box eight times to overflow the recent
	// history window.
	for i := 0; i < 4; i++ {
		e.PlayerAction(context.Background(), "inspect_box")
		e.PlayerAction(context.Background(), "leave_box")
	}

	out := e.Journal()

	assert.Contains(t, out, "Session: "+e.State().SessionID)
	assert.Contains(t, out, "Player: Rhea")
	assert.Contains(t, out, "Journal is empty.")
	assert.Contains(t, out, "No items in inventory.")
	assert.Equal(t, recentHistoryLimit, strings.Count(out, "via "))
	assert.True(t, strings.HasSuffix(out, narrate.PromptMarker))
}

func TestJournalListsEntriesAndInventory(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")
	e.PlayerAction(context.Background(), "approach_tower")
	e.PlayerAction(context.Background(), "search_around")
	e.PlayerAction(context.Background(), "squeeze_in")
	e.PlayerAction(context.Background(), "take_key")

	out := e.Journal()

	assert.Contains(t, out, "- Found brass key on plinth.")
	assert.Contains(t, out, "- brass_key")
}

func TestTowerOverrideAfterTakingMap(t *testing.T) {
	e := newTestEngine(t)
	e.Start("Rhea")
	e.PlayerAction(context.Background(), "inspect_box")
	e.PlayerAction(context.Background(), "take_map")
	e.PlayerAction(context.Background(), "retreat")

	// With the map in the journal, heading to the tower renders the
	// approach scene instead.
	out := e.PlayerAction(context.Background(), "approach_tower")

	assert.Equal(t, "tower", e.State().CurrentScene)
	assert.Contains(t, out, "Clutching the map, you approach the watchtower.")
	assert.NotContains(t, out, "Try the iron latch without any clue.")
}
