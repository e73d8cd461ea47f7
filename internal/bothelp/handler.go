package bothelp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// callbackPayload is the platform callback body. Subscriber id arrives either
// as chat_id or subscriber_id depending on the sender.
type callbackPayload struct {
	ChatID       string  `json:"chat_id"`
	SubscriberID string  `json:"subscriber_id"`
	Action       string  `json:"action"`
	Amount       float64 `json:"amount"`
}

func (p *callbackPayload) subscriber() string {
	if s := strings.TrimSpace(p.ChatID); s != "" {
		return s
	}
	return strings.TrimSpace(p.SubscriberID)
}

// HandleRegister creates or refreshes a subscriber record.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.svc.Register(r.Context(), payload.subscriber()); err != nil {
		log.Error().Err(err).Str("chat_id", payload.subscriber()).Msg("register failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleUpdateStatus processes a payment confirmation callback.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	if payload.Action != ActionPaymentSuccess {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unexpected action"})
		return
	}

	if err := h.svc.ConfirmPayment(r.Context(), payload.subscriber(), payload.Amount); err != nil {
		log.Error().Err(err).Str("chat_id", payload.subscriber()).Msg("payment confirmation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleWebhook dispatches a generic platform event by its action tag.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	switch payload.Action {
	case "register", "subscriber_created":
		if err := h.svc.Register(r.Context(), payload.subscriber()); err != nil {
			log.Error().Err(err).Str("chat_id", payload.subscriber()).Msg("register failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}
	case ActionPaymentSuccess:
		if err := h.svc.ConfirmPayment(r.Context(), payload.subscriber(), payload.Amount); err != nil {
			log.Error().Err(err).Str("chat_id", payload.subscriber()).Msg("payment confirmation failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown action"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*callbackPayload, bool) {
	var payload callbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return nil, false
	}
	if payload.subscriber() == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat_id is required"})
		return nil, false
	}
	return &payload, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
