package bothelp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuznik/telegram-ai-bridge/internal/bot"
)

type mockRepo struct {
	statuses map[string]bot.Status
	paidAt   map[string]bool
	payments []*Payment
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		statuses: map[string]bot.Status{},
		paidAt:   map[string]bool{},
	}
}

func (m *mockRepo) GetStatus(_ context.Context, chatID string) (bot.Status, error) {
	s, ok := m.statuses[chatID]
	if !ok {
		return "", fmt.Errorf("%w: chat %s", bot.ErrUserNotFound, chatID)
	}
	return s, nil
}

func (m *mockRepo) CreateUser(_ context.Context, chatID string, status bot.Status) error {
	m.statuses[chatID] = status
	if status == bot.StatusPaid {
		m.paidAt[chatID] = true
	}
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, chatID string, status bot.Status) error {
	m.statuses[chatID] = status
	return nil
}

func (m *mockRepo) MarkPaid(_ context.Context, chatID string) error {
	m.statuses[chatID] = bot.StatusPaid
	m.paidAt[chatID] = true
	return nil
}

func (m *mockRepo) InsertPayment(_ context.Context, p *Payment) error {
	m.payments = append(m.payments, p)
	return nil
}

type mockGateway struct {
	sent []string
}

func (m *mockGateway) SendMessage(_ context.Context, _ int64, text string) error {
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockGateway) GetFileURL(_ context.Context, _ string) (string, error) {
	return "", nil
}

func TestRegister_CreatesPendingSubscriber(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockGateway{})

	require.NoError(t, svc.Register(context.Background(), "42"))
	assert.Equal(t, bot.StatusPending, repo.statuses["42"])
}

func TestRegister_DoesNotDowngradePaid(t *testing.T) {
	repo := newMockRepo()
	repo.statuses["42"] = bot.StatusPaid
	svc := NewService(repo, &mockGateway{})

	require.NoError(t, svc.Register(context.Background(), "42"))
	assert.Equal(t, bot.StatusPaid, repo.statuses["42"])
}

func TestConfirmPayment_ExistingPendingSubscriber(t *testing.T) {
	repo := newMockRepo()
	repo.statuses["42"] = bot.StatusPending
	gw := &mockGateway{}
	svc := NewService(repo, gw)

	require.NoError(t, svc.ConfirmPayment(context.Background(), "42", 990))

	assert.Equal(t, bot.StatusPaid, repo.statuses["42"])
	assert.True(t, repo.paidAt["42"])
	require.Len(t, repo.payments, 1)
	assert.Equal(t, "42", repo.payments[0].TelegramChatID)
	assert.Equal(t, float64(990), repo.payments[0].Amount)
	assert.Len(t, gw.sent, 1)
}

func TestConfirmPayment_UnknownSubscriberCreated(t *testing.T) {
	repo := newMockRepo()
	gw := &mockGateway{}
	svc := NewService(repo, gw)

	require.NoError(t, svc.ConfirmPayment(context.Background(), "77", 500))

	assert.Equal(t, bot.StatusPaid, repo.statuses["77"])
	require.Len(t, repo.payments, 1)
	assert.Len(t, gw.sent, 1)
}

func TestConfirmPayment_ActiveSubscriberKeepsStatus(t *testing.T) {
	repo := newMockRepo()
	repo.statuses["42"] = bot.StatusActive
	gw := &mockGateway{}
	svc := NewService(repo, gw)

	require.NoError(t, svc.ConfirmPayment(context.Background(), "42", 990))

	// Repeat payment is logged but never downgrades an active user.
	assert.Equal(t, bot.StatusActive, repo.statuses["42"])
	assert.Len(t, repo.payments, 1)
	assert.Len(t, gw.sent, 1)
}
