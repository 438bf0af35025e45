package session

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one completed transition.
type HistoryEntry struct {
	From   string
	Action string
	To     string
	Time   time.Time
}

// State is the mutable record for one player's traversal of the world
// graph. It is owned by exactly one conversation and mutated only by
// the engine, one turn at a time.
type State struct {
	SessionID    string
	PlayerName   string
	CurrentScene string
	History      []HistoryEntry
	Journal      []string
	Inventory    []string
	ChoicesMade  []string
	StartedAt    time.Time
}

// NewState creates a fresh session positioned at the entry scene, so
// reads that arrive before start_adventure still have a valid scene.
func NewState(entryScene string) *State {
	s := &State{}
	s.Reset(entryScene)
	return s
}

// Reset clears every mutable field and issues a new session identity.
// The player name survives a reset; restarting the world does not
// forget who is playing.
func (s *State) Reset(entryScene string) {
	s.SessionID = newSessionID()
	s.CurrentScene = entryScene
	s.History = nil
	s.Journal = nil
	s.Inventory = nil
	s.ChoicesMade = nil
	s.StartedAt = time.Now().UTC()
}

// JournalContains reports whether the journal holds the exact entry.
func (s *State) JournalContains(text string) bool {
	for _, entry := range s.Journal {
		if entry == text {
			return true
		}
	}
	return false
}

// HasItem reports inventory membership.
func (s *State) HasItem(item string) bool {
	for _, it := range s.Inventory {
		if it == item {
			return true
		}
	}
	return false
}

func newSessionID() string {
	return uuid.NewString()[:8]
}
