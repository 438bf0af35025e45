package world

import "fmt"

// Graph is the immutable scene graph. It is built once at startup,
// validated, and shared read-only across sessions.
type Graph struct {
	entry     string
	scenes    map[string]*Scene
	overrides []OverrideRule
}

type Scene struct {
	ID      string
	Title   string
	Desc    string
	Choices []Choice // document order; this is both display order and the resolver tie-break
}

type Choice struct {
	ID          string
	Desc        string
	ResultScene string
	Effects     []Effect
}

// Effect is a closed set of state mutations a choice can carry.
// New effect kinds are added as new variants, never as ad hoc keys.
type Effect interface {
	isEffect()
}

type AppendJournal struct {
	Text string
}

type AddInventoryItem struct {
	Item string
}

func (AppendJournal) isEffect()    {}
func (AddInventoryItem) isEffect() {}

// StateView is the read-only slice of session state that override
// predicates are allowed to inspect.
type StateView interface {
	JournalContains(text string) bool
	HasItem(item string) bool
}

// OverrideRule redirects rendering of a scene to another scene while
// the predicate holds. Rules are world data, not code.
type OverrideRule struct {
	SceneID string
	When    Predicate
	Render  string
}

type Predicate struct {
	JournalContains string
	HasItem         string
}

func (p Predicate) Matches(state StateView) bool {
	if p.JournalContains != "" && !state.JournalContains(p.JournalContains) {
		return false
	}
	if p.HasItem != "" && !state.HasItem(p.HasItem) {
		return false
	}
	return p.JournalContains != "" || p.HasItem != ""
}

func (g *Graph) Entry() string {
	return g.entry
}

func (g *Graph) Scene(id string) (*Scene, bool) {
	s, ok := g.scenes[id]
	return s, ok
}

func (g *Graph) Overrides() []OverrideRule {
	return g.overrides
}

// Scenes returns every scene in the graph. Order is unspecified.
func (g *Graph) Scenes() []*Scene {
	out := make([]*Scene, 0, len(g.scenes))
	for _, s := range g.scenes {
		out = append(out, s)
	}
	return out
}

func (s *Scene) Choice(id string) (*Choice, bool) {
	for i := range s.Choices {
		if s.Choices[i].ID == id {
			return &s.Choices[i], true
		}
	}
	return nil, false
}

// ChoiceMap returns the id -> description mapping handed to the
// semantic resolution service.
func (s *Scene) ChoiceMap() map[string]string {
	m := make(map[string]string, len(s.Choices))
	for _, c := range s.Choices {
		m[c.ID] = c.Desc
	}
	return m
}

// validate checks graph integrity. Any violation is a fatal
// configuration error; nothing here may surface at runtime.
func (g *Graph) validate() error {
	if len(g.scenes) == 0 {
		return fmt.Errorf("world has no scenes")
	}
	if _, ok := g.scenes[g.entry]; !ok {
		return fmt.Errorf("entry scene %q does not exist", g.entry)
	}
	for _, scene := range g.scenes {
		if len(scene.Choices) == 0 {
			return fmt.Errorf("scene %q has no choices", scene.ID)
		}
		seen := make(map[string]bool, len(scene.Choices))
		for _, choice := range scene.Choices {
			if seen[choice.ID] {
				return fmt.Errorf("scene %q has duplicate choice %q", scene.ID, choice.ID)
			}
			seen[choice.ID] = true
			if _, ok := g.scenes[choice.ResultScene]; !ok {
				return fmt.Errorf("scene %q choice %q references unknown scene %q", scene.ID, choice.ID, choice.ResultScene)
			}
		}
	}
	for _, rule := range g.overrides {
		if _, ok := g.scenes[rule.SceneID]; !ok {
			return fmt.Errorf("override references unknown scene %q", rule.SceneID)
		}
		if _, ok := g.scenes[rule.Render]; !ok {
			return fmt.Errorf("override for scene %q renders unknown scene %q", rule.SceneID, rule.Render)
		}
		if rule.When.JournalContains == "" && rule.When.HasItem == "" {
			return fmt.Errorf("override for scene %q has an empty predicate", rule.SceneID)
		}
	}
	return nil
}
