package chatapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
)

// ChatMessage accepts both upstream shapes of the message field: a plain
// string or an object with a text sub-field. It is resolved once here; the
// rest of the code only sees Text.
type ChatMessage struct {
	Text string
}

func (m *ChatMessage) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		m.Text = s
		return nil
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	m.Text = obj.Text
	return nil
}

type Handler struct {
	ai ai.AI
}

func NewHandler(aiClient ai.AI) *Handler {
	return &Handler{ai: aiClient}
}

// HandleChat is a stateless single-turn passthrough to the completion
// provider.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message ChatMessage `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Некорректный запрос"})
		return
	}

	text := strings.TrimSpace(payload.Message.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Пустое сообщение"})
		return
	}

	reply, err := h.ai.Reply(r.Context(), "", []ai.Message{{Role: "user", Text: text}})
	if err != nil {
		log.Error().Err(err).Msg("chat proxy provider failure")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Ошибка на сервере"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
