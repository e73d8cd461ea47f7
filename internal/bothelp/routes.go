package bothelp

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/bothelp/webhook", h.HandleWebhook)
	r.Post("/bothelp/register", h.HandleRegister)
	r.Post("/bothelp/update-status", h.HandleUpdateStatus)
}
