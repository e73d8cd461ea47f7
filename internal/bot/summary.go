package bot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
)

// Summarizer periodically condenses accumulated conversation turns into a
// daily summary row and resets the history of each chat it processed.
type Summarizer struct {
	repo     Repo
	history  History
	ai       ai.AI
	interval time.Duration
}

func NewSummarizer(repo Repo, history History, aiClient ai.AI, interval time.Duration) *Summarizer {
	return &Summarizer{
		repo:     repo,
		history:  history,
		ai:       aiClient,
		interval: interval,
	}
}

// Run ticks until ctx is cancelled. Per-chat failures are logged and the
// remaining chats are still processed.
func (s *Summarizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("summary worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("summary worker stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Summarizer) runOnce(ctx context.Context) {
	chats, err := s.history.ActiveChats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("active chats lookup failed")
		return
	}

	for _, chatID := range chats {
		if err := s.summarizeChat(ctx, chatID); err != nil {
			log.Error().Err(err).Str("chat_id", chatID).Msg("summary generation failed")
		}
	}
}

func (s *Summarizer) summarizeChat(ctx context.Context, chatID string) error {
	msgs, err := s.history.Recent(ctx, chatID)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return s.history.Reset(ctx, chatID)
	}

	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}

	summary, err := s.ai.Summarize(ctx, b.String())
	if err != nil {
		return err
	}

	row := &DailySummary{
		ChatID:      chatID,
		SummaryDate: time.Now().UTC().Format("2006-01-02"),
		Summary:     summary,
	}
	if err := s.repo.UpsertDailySummary(ctx, row); err != nil {
		return err
	}

	if err := s.history.Reset(ctx, chatID); err != nil {
		return err
	}

	log.Info().Str("chat_id", chatID).Msg("daily summary saved")
	return nil
}
