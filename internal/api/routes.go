package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(30 * time.Second))

		r.Post("/users", s.handleCreateUser)

		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Get("/me", s.handleMe)
			r.Put("/me/reminders", s.handleSetReminders)
			r.Get("/stats", s.handleStats)

			r.Get("/repertoires", s.handleListRepertoires)
			r.Put("/repertoires/{color}", s.handleCreateRepertoire)
			r.Get("/repertoires/{color}/tree", s.handleTree)
			r.Post("/repertoires/{color}/lines", s.handleInsertLine)
			r.Post("/repertoires/{color}/import", s.handleImportPGN)
			r.Get("/repertoires/{color}/practice", s.handlePractice)

			r.Delete("/entries/{id}", s.handleDeleteEntry)
			r.Post("/entries/{id}/review", s.handleReview)
			r.Get("/entries/{id}/preview", s.handlePreview)
			r.Get("/entries/{id}/history", s.handleHistory)
		})
	})
	return r
}
