package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/sqlite"
)

// NewRouter serves the inventory API. Any origin may call it.
func NewRouter(db *sqlite.DB, auditSvc *audit.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", ListItemsQueryHandler(db))
		r.Post("/", CreateItemCommandHandler(db, auditSvc))
		r.Get("/alerts", AlertsQueryHandler(db))
		r.Get("/metrics", MetricsQueryHandler(db))
		r.Put("/{id}", UpdateItemCommandHandler(db, auditSvc))
		r.Delete("/{id}", DeleteItemCommandHandler(db, auditSvc))
	})
	return r
}
