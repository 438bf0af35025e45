package session

import (
	"fmt"

	"gamemaster/internal/world"
)

// ApplyEffects applies a choice's effects to the state in listed order.
// Journal appends always land, duplicates included; a repeated
// narrative beat is valid. Inventory adds are idempotent.
func ApplyEffects(effects []world.Effect, state *State) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case world.AppendJournal:
			state.Journal = append(state.Journal, e.Text)
		case world.AddInventoryItem:
			if !state.HasItem(e.Item) {
				state.Inventory = append(state.Inventory, e.Item)
			}
		default:
			// Effect variants are sealed and checked at world load;
			// reaching this is a programming error, not player input.
			panic(fmt.Sprintf("unhandled effect type %T", effect))
		}
	}
}
