package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version/", h.getServerVersion)
		r.Get("/api/health", h.health)
	})

	router.Route("/api/sync", func(r chi.Router) {
		r.Use(h.auth)
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		r.Post("/reconcile", h.reconcile)
		r.Get("/sessions", h.listSessions)
		r.Get("/sessions/{sessionID}", h.getSession)
		r.Post("/sessions/{sessionID}/items/{itemID}/diff", h.getConflictDiff)
		r.Post("/sessions/{sessionID}/items/{itemID}/resolve", h.resolveConflict)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
