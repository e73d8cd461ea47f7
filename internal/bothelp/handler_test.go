package bothelp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSvc struct {
	registered []string
	payments   []string
	err        error
}

func (m *mockSvc) Register(_ context.Context, chatID string) error {
	m.registered = append(m.registered, chatID)
	return m.err
}

func (m *mockSvc) ConfirmPayment(_ context.Context, chatID string, _ float64) error {
	m.payments = append(m.payments, chatID)
	return m.err
}

func post(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestHandleRegister_MissingID(t *testing.T) {
	svc := &mockSvc{}
	h := NewHandler(svc)

	rr := post(h.HandleRegister, "/bothelp/register", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.registered)
}

func TestHandleRegister_SubscriberIDAlias(t *testing.T) {
	svc := &mockSvc{}
	h := NewHandler(svc)

	rr := post(h.HandleRegister, "/bothelp/register", `{"subscriber_id": "42"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"42"}, svc.registered)
}

func TestHandleUpdateStatus_WrongAction(t *testing.T) {
	svc := &mockSvc{}
	h := NewHandler(svc)

	rr := post(h.HandleUpdateStatus, "/bothelp/update-status", `{"chat_id": "42", "action": "refund"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.payments)
}

func TestHandleUpdateStatus_PaymentConfirmed(t *testing.T) {
	svc := &mockSvc{}
	h := NewHandler(svc)

	rr := post(h.HandleUpdateStatus, "/bothelp/update-status",
		`{"chat_id": "42", "action": "payment_success", "amount": 990}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"42"}, svc.payments)
}

func TestHandleWebhook_DispatchByAction(t *testing.T) {
	svc := &mockSvc{}
	h := NewHandler(svc)

	rr := post(h.HandleWebhook, "/bothelp/webhook", `{"chat_id": "1", "action": "register"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = post(h.HandleWebhook, "/bothelp/webhook", `{"chat_id": "2", "action": "payment_success"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = post(h.HandleWebhook, "/bothelp/webhook", `{"chat_id": "3", "action": "mystery"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, []string{"1"}, svc.registered)
	assert.Equal(t, []string{"2"}, svc.payments)
}
