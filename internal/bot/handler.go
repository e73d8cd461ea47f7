package bot

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/soyuznik/telegram-ai-bridge/internal/telegram"
)

const maxBodyBytes = 10 << 20 // 10 MB, matching the platform limit

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleWebhook validates a pushed update envelope and dispatches it.
// Parse-level failures are 400; a store failure during dispatch is 500 so the
// platform redelivers; every other dispatch outcome is acked with 200.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error().Err(err).Msg("webhook body read failed")
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Debug().
		Interface("headers", r.Header).
		Bytes("body", body).
		Msg("webhook received")

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		log.Error().Msg("empty webhook body")
		writeJSONError(w, http.StatusBadRequest, "Empty request body")
		return
	}

	if trimmed[0] != '{' && trimmed[0] != '[' {
		log.Error().Bytes("body", trimmed).Msg("webhook body is not json")
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	var upd telegram.Update
	if err := json.Unmarshal(trimmed, &upd); err != nil {
		log.Error().Err(err).Bytes("body", trimmed).Msg("webhook json parse failed")
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if upd.UpdateID == 0 {
		log.Error().Bytes("body", trimmed).Msg("update without update_id")
		writeJSONError(w, http.StatusBadRequest, "Invalid Telegram update format")
		return
	}

	if err := h.svc.HandleUpdate(r.Context(), &upd); err != nil {
		if errors.Is(err, ErrStoreWrite) {
			log.Error().Err(err).Int64("update_id", upd.UpdateID).Msg("dispatch store failure")
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		// Domain outcomes were already answered in-chat; ack so the
		// platform does not redeliver.
		log.Error().Err(err).Int64("update_id", upd.UpdateID).Msg("dispatch error")
	}

	w.WriteHeader(http.StatusOK)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
