package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	inputHeight := 3
	chatHeight := m.height - inputHeight

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))

	userStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	debugStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	loadingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6"))

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	chatPanel := lipgloss.NewStyle().
		Width(m.width).
		Height(chatHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	maxLines := chatHeight - 2
	if maxLines < 1 {
		maxLines = 1
	}
	contentWidth := m.width - 4

	var lines []string
	for _, message := range m.messages {
		if message == "" {
			lines = append(lines, "")
			continue
		}
		for _, paragraph := range strings.Split(message, "\n") {
			switch {
			case paragraph == "":
				lines = append(lines, "")
			case message == "LOADING_ANIMATION":
				lines = append(lines, loadingStyle.Render(" "+getLoadingAnimation(m.animationFrame)))
			case strings.HasPrefix(message, "> "):
				lines = append(lines, userStyle.Render(wrapAndIndent(paragraph, contentWidth, " ")))
			case strings.HasPrefix(message, "[DEBUG] "):
				lines = append(lines, debugStyle.Render(wrapAndIndent(paragraph, contentWidth, " ")))
			default:
				lines = append(lines, messageStyle.Render(wrapAndIndent(paragraph, contentWidth, " ")))
			}
		}
	}

	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	var chatContent strings.Builder
	for i := len(lines); i < maxLines; i++ {
		chatContent.WriteString("\n")
	}
	for _, line := range lines {
		chatContent.WriteString(line + "\n")
	}

	chat := chatPanel.Render(chatContent.String())
	input := inputStyle.Render(m.input + "│")

	return chat + "\n" + input
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	var result strings.Builder
	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}
