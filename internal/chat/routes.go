package chat

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/turn", h.HandleTurn)
		r.Get("/models", h.HandleModels)
		r.Post("/db-check", h.HandleDBCheck)
	})
}
