package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

type mockService struct {
	calls   int
	lastUpd *telegram.Update
	err     error
}

func (m *mockService) HandleUpdate(_ context.Context, upd *telegram.Update) error {
	m.calls++
	m.lastUpd = upd
	return m.err
}

func postWebhook(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chatbot-webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.HandleWebhook(rr, req)
	return rr
}

func TestHandleWebhook_RejectsInvalidBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"lone bracket", "]"},
		{"plain text", "not json at all"},
		{"truncated object", `{"update_id": 1`},
		{"missing update_id", `{"message": {"text": "hi"}}`},
		{"array body", `[{"update_id": 1}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}
			rr := postWebhook(NewHandler(svc), tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, svc.calls, "dispatcher must not be invoked")
			assert.Contains(t, rr.Body.String(), "error")
		})
	}
}

func TestHandleWebhook_DispatchesValidUpdate(t *testing.T) {
	svc := &mockService{}
	body := `{"update_id": 123, "message": {"message_id": 1, "chat": {"id": 42, "type": "private"}, "text": "hello"}}`
	rr := postWebhook(NewHandler(svc), body)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, svc.calls)
	assert.Equal(t, int64(123), svc.lastUpd.UpdateID)
	assert.Equal(t, "hello", svc.lastUpd.Message.Text)
}

func TestHandleWebhook_StoreFailureSignalsRetry(t *testing.T) {
	svc := &mockService{err: fmt.Errorf("%w: insert failed", ErrStoreWrite)}
	rr := postWebhook(NewHandler(svc), `{"update_id": 7}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
}

func TestHandleWebhook_DomainErrorStillAcked(t *testing.T) {
	svc := &mockService{err: fmt.Errorf("%w: upstream", ErrProvider)}
	rr := postWebhook(NewHandler(svc), `{"update_id": 8}`)

	assert.Equal(t, http.StatusOK, rr.Code)
}
