package health

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/status", h.HandleStatus)
	r.Get("/debug", h.HandleDebug)
}
