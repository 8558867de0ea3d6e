package http

import (
	"time"

	"github.com/go-chi/chi/v5"

	"stockdash/frontend/dashboard"
	"stockdash/frontend/reorder"
)

// RegisterDashboardRoutes registers the page and item form routes.
func (s *Server) RegisterDashboardRoutes(r chi.Router) {
	r.Get("/", dashboard.DashboardPageQueryHandler(s.Controller, s.PageSize))
	r.Post("/refresh", dashboard.RefreshCommandHandler(s.Controller))

	r.Route("/items", func(r chi.Router) {
		r.Post("/", dashboard.CreateItemCommandHandler(s.Controller))
		r.Post("/{id}", dashboard.UpdateItemCommandHandler(s.Controller))
		r.Post("/{id}/delete", dashboard.DeleteItemCommandHandler(s.Controller))
	})

	r.Get("/api/snapshot", dashboard.SnapshotQueryHandler(s.Controller))
}

// RegisterTransferRoutes registers CSV import/export and the reorder sheet.
func (s *Server) RegisterTransferRoutes(r chi.Router) {
	r.Get("/export/inventory.csv", dashboard.ExportCSVHandler(s.Controller))
	r.Post("/import", dashboard.ImportCSVCommandHandler(s.Controller))
	r.Get("/reorder.pdf", reorder.ReorderSheetQueryHandler(s.Controller, time.Now))
}
