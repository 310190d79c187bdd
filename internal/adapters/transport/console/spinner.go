package console

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/expense-bot/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type replyDoneMsg struct {
	reply domain.Reply
}

// waitModel shows a spinner next to the pending command until the reply
// arrives, then quits and clears its line.
type waitModel struct {
	spinner spinner.Model
	label   string
	respond tea.Cmd
	reply   domain.Reply
	done    bool
}

func newWaitModel(label string, respond tea.Cmd) waitModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return waitModel{spinner: s, label: label, respond: respond}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.respond)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case replyDoneMsg:
		m.done = true
		m.reply = msg.reply
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// respondWithSpinner runs respond while drawing a spinner on output.
func respondWithSpinner(ctx context.Context, output io.Writer, label string, respond func(context.Context) domain.Reply) (domain.Reply, error) {
	respondCmd := func() tea.Msg {
		return replyDoneMsg{reply: respond(ctx)}
	}

	p := tea.NewProgram(
		newWaitModel(label, respondCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return domain.Reply{}, fmt.Errorf("run spinner: %w", err)
	}

	result, ok := finalModel.(waitModel)
	if !ok {
		return domain.Reply{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.reply, nil
}
