package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			return m, animationTimer()
		}
		return m, nil

	case actionResultMsg:
		if m.loading {
			// Drop the loading placeholder and show the reply.
			m.messages = m.messages[:len(m.messages)-1]
			m.messages = append(m.messages, msg.response, "")
			m.loading = false
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			input := strings.TrimSpace(m.input)
			if input == "" || m.loading {
				return m, nil
			}
			m.input = ""

			if strings.HasPrefix(input, "/") {
				m.messages = append(m.messages, "> "+input)
				m.messages = append(m.messages, m.handleCommand(input), "")
				return m, nil
			}

			m.messages = append(m.messages, "> "+input, "")
			m.loading = true
			m.animationFrame = 0
			m.messages = append(m.messages, "LOADING_ANIMATION")
			return m, tea.Batch(performAction(m.engine, input), animationTimer())

		case "backspace":
			if len(m.input) > 0 && !m.loading {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil

		default:
			if len(msg.String()) == 1 && !m.loading {
				m.input += msg.String()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) handleCommand(input string) string {
	switch input {
	case "/scene":
		return m.engine.CurrentScene()
	case "/journal":
		return m.engine.Journal()
	case "/restart":
		return m.engine.Restart()
	case "/help":
		return "Commands: /scene (show current scene), /journal (show journal), /restart (reset the adventure), /help"
	default:
		return "Unknown command. Try /help."
	}
}
