package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"gamemaster/internal/session"
)

type Model struct {
	engine         *session.Engine
	messages       []string
	input          string
	width          int
	height         int
	debug          bool
	loading        bool
	animationFrame int
}

func NewModel(engine *session.Engine, debug bool) Model {
	messages := []string{}
	if debug {
		messages = append(messages, "[DEBUG] Debug commands: /scene, /journal, /restart, /help", "")
	}
	messages = append(messages, engine.Start(""), "")

	return Model{
		engine:   engine,
		messages: messages,
		debug:    debug,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

type animationTickMsg struct{}

type actionResultMsg struct {
	response string
}
