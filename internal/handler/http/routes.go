package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get("/healthz", h.health)
	router.Get("/version", h.version)

	router.Route("/timeline", func(r chi.Router) {
		r.Get("/", h.timelineEvents)
		r.Get("/summary", h.timelineSummary)
	})
	router.Route("/locks", func(r chi.Router) {
		r.Get("/", h.heldLocks)
		r.Get("/{username}", h.userLock)
	})
	router.Get("/workers/{worker}/lock", h.workerLock)

	return router
}
