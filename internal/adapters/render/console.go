package render

import (
	"github.com/bnema/expense-bot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type consoleStyles struct {
	plain  lipgloss.Style
	json   lipgloss.Style
	prompt lipgloss.Style
	notice lipgloss.Style
}

func newConsoleStyles() consoleStyles {
	return consoleStyles{
		plain:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		json:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")).PaddingLeft(2),
		prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		notice: lipgloss.NewStyle().Faint(true),
	}
}

var defaultConsoleStyles = newConsoleStyles()

func Console(reply domain.Reply) string {
	if reply.Kind == domain.ReplyJSON {
		return defaultConsoleStyles.json.Render(reply.Text)
	}
	return defaultConsoleStyles.plain.Render(reply.Text)
}

func ConsolePrompt(text string) string {
	return defaultConsoleStyles.prompt.Render(text)
}

func ConsoleNotice(text string) string {
	return defaultConsoleStyles.notice.Render(text)
}
