package bothelp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/soyuznik/telegram-ai-bridge/internal/bot"
)

type repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) Repo {
	return &repo{db: db}
}

func (r *repo) GetStatus(ctx context.Context, chatID string) (bot.Status, error) {
	var status bot.Status
	err := r.db.GetContext(ctx, &status, `
		SELECT status FROM users WHERE telegram_chat_id = $1
	`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: chat %s", bot.ErrUserNotFound, chatID)
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *repo) CreateUser(ctx context.Context, chatID string, status bot.Status) error {
	paidAt := "NULL"
	if status == bot.StatusPaid {
		paidAt = "now()"
	}
	query := fmt.Sprintf(`
		INSERT INTO users (telegram_chat_id, status, paid_at)
		VALUES ($1, $2, %s)
		ON CONFLICT (telegram_chat_id) DO NOTHING
	`, paidAt)
	_, err := r.db.ExecContext(ctx, query, chatID, string(status))
	return err
}

func (r *repo) UpdateStatus(ctx context.Context, chatID string, status bot.Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET status = $1 WHERE telegram_chat_id = $2
	`, string(status), chatID)
	return err
}

func (r *repo) MarkPaid(ctx context.Context, chatID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET status = 'paid', paid_at = now() WHERE telegram_chat_id = $1
	`, chatID)
	return err
}

func (r *repo) InsertPayment(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, telegram_chat_id, amount, created_at)
		VALUES ($1, $2, $3, now())
	`, p.ID, p.TelegramChatID, p.Amount)
	return err
}
