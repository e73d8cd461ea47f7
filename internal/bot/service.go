package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

type service struct {
	repo    Repo
	history History
	ai      ai.AI
	gateway telegram.Gateway
}

func NewService(repo Repo, history History, aiClient ai.AI, gateway telegram.Gateway) Service {
	return &service{
		repo:    repo,
		history: history,
		ai:      aiClient,
		gateway: gateway,
	}
}

// HandleUpdate runs one inbound update through the onboarding state machine
// or the free-chat flow. Store failures are returned wrapped in ErrStoreWrite
// so the ingress can signal redelivery.
func (s *service) HandleUpdate(ctx context.Context, upd *telegram.Update) error {
	if upd == nil || upd.Message == nil {
		return nil
	}
	msg := upd.Message
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	log.Debug().
		Str("chat_id", chatID).
		Int64("update_id", upd.UpdateID).
		Str("text", msg.Text).
		Msg("inbound message")

	user, err := s.repo.GetUserByChatID(ctx, chatID)
	if errors.Is(err, ErrUserNotFound) {
		s.send(ctx, msg.Chat.ID, replyUserNotFound)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: fetch user %s: %v", ErrStoreWrite, chatID, err)
	}

	if !user.Status.HasChatAccess() {
		log.Info().Str("chat_id", chatID).Str("status", string(user.Status)).Msg("access denied")
		s.send(ctx, msg.Chat.ID, replyAccessDenied)
		return nil
	}

	if _, ok := msg.LargestPhoto(); ok {
		return s.handlePhoto(ctx, user, msg)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	state, err := s.repo.GetState(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("%w: fetch state for user %d: %v", ErrStoreWrite, user.ID, err)
	}

	if state == nil {
		if isStartCommand(text) {
			return s.startOnboarding(ctx, user, msg.Chat.ID)
		}
		return s.handleChat(ctx, user, msg.Chat.ID, text)
	}

	if isStartCommand(text) {
		// Already onboarding: repeat the pending question.
		s.send(ctx, msg.Chat.ID, stepPrompt(state.Step))
		return nil
	}

	return s.handleStep(ctx, user, state, msg.Chat.ID, text)
}

func (s *service) startOnboarding(ctx context.Context, user *User, chatID int64) error {
	if err := s.repo.CreateState(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: create state for user %d: %v", ErrStoreWrite, user.ID, err)
	}
	s.send(ctx, chatID, replyWelcome)
	return nil
}

func (s *service) handleStep(ctx context.Context, user *User, state *UserState, chatID int64, text string) error {
	switch state.Step {
	case 1:
		if err := s.repo.SetCustomName(ctx, user.TelegramChatID, text); err != nil {
			return fmt.Errorf("%w: set custom_name: %v", ErrStoreWrite, err)
		}
		if err := s.repo.AdvanceState(ctx, user.ID, 2); err != nil {
			return fmt.Errorf("%w: advance to step 2: %v", ErrStoreWrite, err)
		}
		s.send(ctx, chatID, replyAskPersona)
		return nil

	case 2:
		if err := s.repo.SetPersona(ctx, user.TelegramChatID, text); err != nil {
			return fmt.Errorf("%w: set persona: %v", ErrStoreWrite, err)
		}
		if err := s.repo.AdvanceState(ctx, user.ID, 3); err != nil {
			return fmt.Errorf("%w: advance to step 3: %v", ErrStoreWrite, err)
		}
		s.send(ctx, chatID, replyAskPriority)
		return nil

	case 3:
		if err := s.repo.CompleteOnboarding(ctx, user.TelegramChatID, text); err != nil {
			return fmt.Errorf("%w: complete onboarding: %v", ErrStoreWrite, err)
		}
		if err := s.repo.DeleteState(ctx, user.ID); err != nil {
			return fmt.Errorf("%w: delete state for user %d: %v", ErrStoreWrite, user.ID, err)
		}
		s.send(ctx, chatID, replyDone)
		return nil

	default:
		log.Warn().
			Str("chat_id", user.TelegramChatID).
			Int("step", state.Step).
			Msg("stored step out of range, ignoring turn")
		return nil
	}
}

func (s *service) handleChat(ctx context.Context, user *User, chatID int64, text string) error {
	if reply, ok := s.recallReply(user, text); ok {
		s.send(ctx, chatID, reply)
		return nil
	}

	system, err := s.systemPrompt(ctx, user.TelegramChatID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("summary lookup failed")
		system = systemPromptDefault
	}

	if err := s.history.Append(ctx, user.TelegramChatID, ai.Message{Role: "user", Text: text}); err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("history append failed")
	}

	history, err := s.history.Recent(ctx, user.TelegramChatID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("history fetch failed")
		history = []ai.Message{{Role: "user", Text: text}}
	}

	reply, err := s.ai.Reply(ctx, system, history)
	if err != nil {
		s.send(ctx, chatID, replyFailure)
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	s.send(ctx, chatID, reply)

	if err := s.history.Append(ctx, user.TelegramChatID, ai.Message{Role: "assistant", Text: reply}); err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("history append failed")
	}
	return nil
}

func (s *service) handlePhoto(ctx context.Context, user *User, msg *telegram.Message) error {
	photo, _ := msg.LargestPhoto()

	fileURL, err := s.gateway.GetFileURL(ctx, photo.FileID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("file url lookup failed")
		s.send(ctx, msg.Chat.ID, replyFailure)
		return nil
	}

	system, err := s.systemPrompt(ctx, user.TelegramChatID)
	if err != nil {
		system = systemPromptDefault
	}

	description, err := s.ai.DescribeImage(ctx, system, fileURL)
	if err != nil {
		s.send(ctx, msg.Chat.ID, replyFailure)
		return fmt.Errorf("%w: describe image: %v", ErrProvider, err)
	}

	s.send(ctx, msg.Chat.ID, imageCaptionPrefix+description)

	if err := s.history.Append(ctx, user.TelegramChatID, ai.Message{Role: "user", Text: imagePromptText}); err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("history append failed")
	}
	if err := s.history.Append(ctx, user.TelegramChatID, ai.Message{Role: "assistant", Text: description}); err != nil {
		log.Error().Err(err).Str("chat_id", user.TelegramChatID).Msg("history append failed")
	}
	return nil
}

// recallReply answers a few fixed questions about the stored profile without
// calling the provider.
func (s *service) recallReply(user *User, text string) (string, bool) {
	q := strings.ToLower(strings.TrimRight(strings.TrimSpace(text), "?!."))
	switch q {
	case "как меня зовут":
		if user.CustomName != "" {
			return fmt.Sprintf(recallNameTemplate, user.CustomName), true
		}
	case "кто для меня союзник", "кто мой союзник":
		if user.Persona != "" {
			return fmt.Sprintf(recallPersonaTemplate, user.Persona), true
		}
	case "что для меня важно", "что для меня сейчас важно":
		if user.Priority != "" {
			return fmt.Sprintf(recallPriorityTemplate, user.Priority), true
		}
	}
	return "", false
}

func (s *service) systemPrompt(ctx context.Context, chatID string) (string, error) {
	summary, err := s.repo.LatestSummary(ctx, chatID)
	if err != nil {
		return "", err
	}
	if summary == nil {
		return systemPromptDefault, nil
	}
	return fmt.Sprintf(systemPromptWithSummary, summary.Summary), nil
}

// send delivers a reply; failures are logged, the turn is not retried.
func (s *service) send(ctx context.Context, chatID int64, text string) {
	if err := s.gateway.SendMessage(ctx, chatID, text); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func isStartCommand(text string) bool {
	return text == "/start" || strings.HasPrefix(text, "/start ")
}

func stepPrompt(step int) string {
	switch step {
	case 2:
		return replyAskPersona
	case 3:
		return replyAskPriority
	default:
		return replyWelcome
	}
}
