package console

import (
	"testing"

	"github.com/bnema/expense-bot/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitModelShowsLabelUntilReplyArrives(t *testing.T) {
	t.Parallel()

	model := newWaitModel("/summary", func() tea.Msg { return nil })
	assert.Contains(t, model.View(), "/summary")

	updated, cmd := model.Update(replyDoneMsg{reply: domain.PlainReply("done")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	final, ok := updated.(waitModel)
	require.True(t, ok)
	assert.True(t, final.done)
	assert.Equal(t, domain.PlainReply("done"), final.reply)
	assert.Empty(t, final.View())
}

func TestWaitModelIgnoresUnknownMessages(t *testing.T) {
	t.Parallel()

	model := newWaitModel("/stats", nil)
	updated, cmd := model.Update(tea.KeyMsg{})
	assert.Nil(t, cmd)
	assert.False(t, updated.(waitModel).done)
}
