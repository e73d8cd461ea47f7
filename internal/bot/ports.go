package bot

import (
	"context"
	"time"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

// Status is the access status of a user. Transitions are monotonic:
// new -> pending -> paid -> active.
type Status string

const (
	StatusNew     Status = "new"
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusActive  Status = "active"
)

var statusRank = map[Status]int{
	StatusNew:     0,
	StatusPending: 1,
	StatusPaid:    2,
	StatusActive:  3,
}

// CanUpgradeTo reports whether moving to next advances the progression.
func (s Status) CanUpgradeTo(next Status) bool {
	return statusRank[next] > statusRank[s]
}

// HasChatAccess reports whether the user may talk to the bot.
func (s Status) HasChatAccess() bool {
	return s == StatusPaid || s == StatusActive
}

type User struct {
	ID             int64      `db:"id"`
	TelegramChatID string     `db:"telegram_chat_id"`
	Status         Status     `db:"status"`
	CustomName     string     `db:"custom_name"`
	Persona        string     `db:"persona"`
	Priority       string     `db:"priority"`
	CreatedAt      time.Time  `db:"created_at"`
	PaidAt         *time.Time `db:"paid_at"`
	ChatStartedAt  *time.Time `db:"chat_started_at"`
}

// UserState exists only while the user is mid-onboarding.
type UserState struct {
	UserID int64 `db:"user_id"`
	Step   int   `db:"step"`
}

type DailySummary struct {
	ChatID      string    `db:"chat_id"`
	SummaryDate string    `db:"summary_date"`
	Summary     string    `db:"summary"`
	CreatedAt   time.Time `db:"created_at"`
}

// Repo is the row-store surface used by the dispatcher.
type Repo interface {
	GetUserByChatID(ctx context.Context, chatID string) (*User, error)
	SetCustomName(ctx context.Context, chatID, name string) error
	SetPersona(ctx context.Context, chatID, persona string) error
	// CompleteOnboarding stores the priority, switches status to active and
	// stamps chat_started_at.
	CompleteOnboarding(ctx context.Context, chatID, priority string) error

	// GetState returns (nil, nil) when the user is not onboarding.
	GetState(ctx context.Context, userID int64) (*UserState, error)
	CreateState(ctx context.Context, userID int64) error
	AdvanceState(ctx context.Context, userID int64, step int) error
	DeleteState(ctx context.Context, userID int64) error

	UpsertDailySummary(ctx context.Context, s *DailySummary) error
	// LatestSummary returns (nil, nil) when no summary exists yet.
	LatestSummary(ctx context.Context, chatID string) (*DailySummary, error)
}

// History stores recent conversation turns per chat, capped and expiring.
type History interface {
	Append(ctx context.Context, chatID string, msg ai.Message) error
	Recent(ctx context.Context, chatID string) ([]ai.Message, error)
	Reset(ctx context.Context, chatID string) error
	ActiveChats(ctx context.Context) ([]string, error)
}

// Service dispatches one inbound update.
type Service interface {
	HandleUpdate(ctx context.Context, upd *telegram.Update) error
}
