package chatapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
)

type stubAI struct {
	reply    string
	err      error
	lastText string
}

func (s *stubAI) Reply(_ context.Context, _ string, history []ai.Message) (string, error) {
	if len(history) > 0 {
		s.lastText = history[len(history)-1].Text
	}
	return s.reply, s.err
}

func (s *stubAI) DescribeImage(_ context.Context, _, _ string) (string, error) {
	return s.reply, s.err
}

func (s *stubAI) Summarize(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func postChat(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.HandleChat(rr, req)
	return rr
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	for _, body := range []string{
		`{"message": ""}`,
		`{"message": "   "}`,
		`{"message": {"text": ""}}`,
		`{}`,
	} {
		rr := postChat(NewHandler(&stubAI{}), body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		assert.Contains(t, rr.Body.String(), "Пустое сообщение")
	}
}

func TestHandleChat_StringMessage(t *testing.T) {
	stub := &stubAI{reply: "hi"}
	rr := postChat(NewHandler(stub), `{"message": "hello"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"reply": "hi"}`, rr.Body.String())
	assert.Equal(t, "hello", stub.lastText)
}

func TestHandleChat_ObjectMessage(t *testing.T) {
	stub := &stubAI{reply: "hi"}
	rr := postChat(NewHandler(stub), `{"message": {"text": "hello"}}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"reply": "hi"}`, rr.Body.String())
	assert.Equal(t, "hello", stub.lastText)
}

func TestHandleChat_ProviderFailure(t *testing.T) {
	stub := &stubAI{err: errors.New("rate limited")}
	rr := postChat(NewHandler(stub), `{"message": "hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error": "Ошибка на сервере"}`, rr.Body.String())
	// Provider details never leak to the caller.
	assert.NotContains(t, rr.Body.String(), "rate limited")
}

func TestHandleChat_MalformedBody(t *testing.T) {
	rr := postChat(NewHandler(&stubAI{}), `{"message": 42}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChatMessage_Unmarshal(t *testing.T) {
	var m ChatMessage
	require.NoError(t, m.UnmarshalJSON([]byte(`"plain"`)))
	assert.Equal(t, "plain", m.Text)

	require.NoError(t, m.UnmarshalJSON([]byte(`{"text": "nested"}`)))
	assert.Equal(t, "nested", m.Text)

	require.Error(t, m.UnmarshalJSON([]byte(`42`)))
}
