package bothelp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/soyuznik/telegram-ai-bridge/internal/bot"
)

// ActionPaymentSuccess is the confirmation tag the payment platform sends.
const ActionPaymentSuccess = "payment_success"

// Payment is an append-only record of one confirmed payment.
type Payment struct {
	ID             uuid.UUID `db:"id"`
	TelegramChatID string    `db:"telegram_chat_id"`
	Amount         float64   `db:"amount"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repo is the subscriber/payment surface of the row store.
type Repo interface {
	// GetStatus returns bot.ErrUserNotFound (wrapped) for unknown subscribers.
	GetStatus(ctx context.Context, chatID string) (bot.Status, error)
	CreateUser(ctx context.Context, chatID string, status bot.Status) error
	UpdateStatus(ctx context.Context, chatID string, status bot.Status) error
	// MarkPaid sets the status and stamps paid_at.
	MarkPaid(ctx context.Context, chatID string) error
	InsertPayment(ctx context.Context, p *Payment) error
}

type Service interface {
	// Register creates the subscriber or moves a fresh one to pending.
	Register(ctx context.Context, chatID string) error
	// ConfirmPayment marks the subscriber paid, appends exactly one payment
	// record and sends one confirmation message.
	ConfirmPayment(ctx context.Context, chatID string, amount float64) error
}
