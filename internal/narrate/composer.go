// Package narrate renders world scenes and transitions as plain prose
// suitable for spoken delivery. Output carries no markup, and every
// player-facing rendering ends with the fixed turn prompt.
package narrate

import (
	"fmt"
	"strings"

	"gamemaster/internal/world"
)

// PromptMarker closes every game-master message; the voice flow relies
// on it to hand the turn back to the player.
const PromptMarker = "What do you do?"

// maxOverrideDepth bounds override recursion; the world is validated,
// but a cycle of override rules must not hang a render.
const maxOverrideDepth = 4

type Composer struct {
	graph *world.Graph
}

func NewComposer(graph *world.Graph) *Composer {
	return &Composer{graph: graph}
}

// RenderScene renders a scene's description and choice hints. Override
// rules are consulted first: while a rule's predicate holds, the
// designated scene is rendered instead, including its own overrides.
func (c *Composer) RenderScene(sceneID string, state world.StateView) string {
	return c.renderScene(sceneID, state, 0)
}

func (c *Composer) renderScene(sceneID string, state world.StateView, depth int) string {
	scene, ok := c.graph.Scene(sceneID)
	if !ok {
		return "You are in a featureless void. " + PromptMarker
	}

	if depth < maxOverrideDepth {
		for _, rule := range c.graph.Overrides() {
			if rule.SceneID == sceneID && rule.When.Matches(state) {
				return c.renderScene(rule.Render, state, depth+1)
			}
		}
	}

	var b strings.Builder
	b.WriteString(scene.Desc)
	b.WriteString("\n\nChoices:\n")
	for _, choice := range scene.Choices {
		b.WriteString("- ")
		b.WriteString(choice.Desc)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(PromptMarker)
	return b.String()
}

// RenderTransition phrases the action just taken as one short
// sentence. It only rewords the choice's own description; it never
// introduces facts the choice does not state.
func (c *Composer) RenderTransition(choice *world.Choice) string {
	desc := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(choice.Desc), "."))
	switch {
	case strings.Contains(choice.ID, "take") || strings.Contains(choice.ID, "pick"):
		return fmt.Sprintf("You %s, and a new path opens.", desc)
	case strings.Contains(choice.ID, "approach") || strings.Contains(choice.ID, "walk") || strings.Contains(choice.ID, "go"):
		return fmt.Sprintf("You decide to %s and proceed.", desc)
	default:
		return fmt.Sprintf("You chose to '%s', and the scene changes.", desc)
	}
}
