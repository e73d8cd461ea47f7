package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
)

func TestSummarizer_RunOnce(t *testing.T) {
	repo := newMockRepo()
	history := newMockHistory()
	history.turns["42"] = []ai.Message{
		{Role: "user", Text: "тяжёлый день"},
		{Role: "assistant", Text: "расскажите подробнее"},
	}
	aiClient := &mockAI{summary: "обсуждали усталость"}

	s := NewSummarizer(repo, history, aiClient, time.Hour)
	s.runOnce(context.Background())

	require.NotNil(t, repo.summaries["42"])
	assert.Equal(t, "обсуждали усталость", repo.summaries["42"].Summary)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), repo.summaries["42"].SummaryDate)
	assert.Empty(t, history.turns["42"], "history is reset after summarizing")
}

func TestSummarizer_SkipsEmptyChats(t *testing.T) {
	repo := newMockRepo()
	history := newMockHistory()
	history.turns["42"] = nil
	aiClient := &mockAI{summary: "unused"}

	s := NewSummarizer(repo, history, aiClient, time.Hour)
	s.runOnce(context.Background())

	assert.Empty(t, repo.summaries)
	assert.Zero(t, aiClient.calls)
}
