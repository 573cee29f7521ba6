package ui

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, s *Store) {
	r.Get("/", s.HandleIndex)
	r.Post("/generate", s.HandleGenerate)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.HandleState)
		r.Post("/generate", s.HandleAPIGenerate)
	})
}
