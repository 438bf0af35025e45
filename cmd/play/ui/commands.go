package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gamemaster/internal/session"
)

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}

// performAction runs the turn off the update loop; the semantic
// fallback may block for a few seconds.
func performAction(engine *session.Engine, input string) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{response: engine.PlayerAction(context.Background(), input)}
	}
}
