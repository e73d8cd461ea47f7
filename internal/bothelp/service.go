package bothelp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soyuznik/telegram-ai-bridge/internal/bot"
	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

const replyPaymentConfirmed = "✅ Оплата подтверждена! Отправьте /start, чтобы начать знакомство."

type service struct {
	repo    Repo
	gateway telegram.Gateway
}

func NewService(repo Repo, gateway telegram.Gateway) Service {
	return &service{repo: repo, gateway: gateway}
}

func (s *service) Register(ctx context.Context, chatID string) error {
	status, err := s.repo.GetStatus(ctx, chatID)
	if errors.Is(err, bot.ErrUserNotFound) {
		if err := s.repo.CreateUser(ctx, chatID, bot.StatusPending); err != nil {
			return fmt.Errorf("%w: create user %s: %v", bot.ErrStoreWrite, chatID, err)
		}
		log.Info().Str("chat_id", chatID).Msg("subscriber registered")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: fetch user %s: %v", bot.ErrStoreWrite, chatID, err)
	}

	// Never downgrade an already paid or active subscriber.
	if !status.CanUpgradeTo(bot.StatusPending) {
		log.Debug().Str("chat_id", chatID).Str("status", string(status)).Msg("register is a no-op")
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, chatID, bot.StatusPending); err != nil {
		return fmt.Errorf("%w: set pending for %s: %v", bot.ErrStoreWrite, chatID, err)
	}
	return nil
}

func (s *service) ConfirmPayment(ctx context.Context, chatID string, amount float64) error {
	status, err := s.repo.GetStatus(ctx, chatID)
	switch {
	case errors.Is(err, bot.ErrUserNotFound):
		if err := s.repo.CreateUser(ctx, chatID, bot.StatusPaid); err != nil {
			return fmt.Errorf("%w: create paid user %s: %v", bot.ErrStoreWrite, chatID, err)
		}
	case err != nil:
		return fmt.Errorf("%w: fetch user %s: %v", bot.ErrStoreWrite, chatID, err)
	case status.CanUpgradeTo(bot.StatusPaid):
		if err := s.repo.MarkPaid(ctx, chatID); err != nil {
			return fmt.Errorf("%w: mark paid %s: %v", bot.ErrStoreWrite, chatID, err)
		}
	default:
		// Already paid or active: keep the status, still log the payment.
		log.Info().Str("chat_id", chatID).Str("status", string(status)).Msg("payment for already paid subscriber")
	}

	payment := &Payment{
		ID:             uuid.New(),
		TelegramChatID: chatID,
		Amount:         amount,
	}
	if err := s.repo.InsertPayment(ctx, payment); err != nil {
		return fmt.Errorf("%w: insert payment for %s: %v", bot.ErrStoreWrite, chatID, err)
	}

	log.Info().Str("chat_id", chatID).Float64("amount", amount).Msg("payment confirmed")

	numericID, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		log.Warn().Str("chat_id", chatID).Msg("non-numeric chat id, skipping confirmation send")
		return nil
	}
	if err := s.gateway.SendMessage(ctx, numericID, replyPaymentConfirmed); err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("confirmation send failed")
	}
	return nil
}
