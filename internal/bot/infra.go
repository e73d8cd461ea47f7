package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) Repo {
	return &repo{db: db}
}

func (r *repo) GetUserByChatID(ctx context.Context, chatID string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, telegram_chat_id, status,
		       COALESCE(custom_name, '') AS custom_name,
		       COALESCE(persona, '') AS persona,
		       COALESCE(priority, '') AS priority,
		       created_at, paid_at, chat_started_at
		FROM users
		WHERE telegram_chat_id = $1
	`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: chat %s", ErrUserNotFound, chatID)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) SetCustomName(ctx context.Context, chatID, name string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET custom_name = $1 WHERE telegram_chat_id = $2
	`, name, chatID)
	return err
}

func (r *repo) SetPersona(ctx context.Context, chatID, persona string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET persona = $1 WHERE telegram_chat_id = $2
	`, persona, chatID)
	return err
}

func (r *repo) CompleteOnboarding(ctx context.Context, chatID, priority string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET priority = $1, status = 'active', chat_started_at = now()
		WHERE telegram_chat_id = $2
	`, priority, chatID)
	return err
}

func (r *repo) GetState(ctx context.Context, userID int64) (*UserState, error) {
	var st UserState
	err := r.db.GetContext(ctx, &st, `
		SELECT user_id, step FROM user_states WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *repo) CreateState(ctx context.Context, userID int64) error {
	// user_id is the primary key, so a user can never hold two state rows.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_states (user_id, step)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (r *repo) AdvanceState(ctx context.Context, userID int64, step int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_states SET step = $2 WHERE user_id = $1
	`, userID, step)
	return err
}

func (r *repo) DeleteState(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_states WHERE user_id = $1
	`, userID)
	return err
}

func (r *repo) UpsertDailySummary(ctx context.Context, s *DailySummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (chat_id, summary_date, summary, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chat_id, summary_date)
		DO UPDATE SET summary = EXCLUDED.summary, created_at = now()
	`, s.ChatID, s.SummaryDate, s.Summary)
	return err
}

func (r *repo) LatestSummary(ctx context.Context, chatID string) (*DailySummary, error) {
	var s DailySummary
	err := r.db.GetContext(ctx, &s, `
		SELECT chat_id, to_char(summary_date, 'YYYY-MM-DD') AS summary_date, summary, created_at
		FROM daily_summaries
		WHERE chat_id = $1
		ORDER BY summary_date DESC
		LIMIT 1
	`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
