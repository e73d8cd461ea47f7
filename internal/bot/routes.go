package bot

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chatbot-webhook", h.HandleWebhook)
	r.Post("/telegram-webhook", h.HandleWebhook)
}
