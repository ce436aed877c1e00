package routes

import (
	"steel-ledger/mtrledger/internal/api"
	"steel-ledger/mtrledger/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	cfg := deps.Config
	svcs := deps.Services
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Route("/api/v1", func(v1 chi.Router) {
		// reads
		v1.Get("/joined", api.JoinedViewHandler(svcs.Join))
		v1.Get("/joined/export", api.ExportJoinedHandler(svcs.Export))
		v1.Get("/stats", api.StatsHandler(svcs.Join))
		v1.Get("/mtr", api.ListMtrHandler(svcs.Mtr))

		// writes are rate limited per client
		v1.Group(func(writes chi.Router) {
			writes.Use(limiter.Middleware)

			writes.Post("/inventory/import", api.ImportInventoryHandler(svcs.Import, cfg.UploadMaxBytes(), cfg.CSVDelimiter))
			writes.Post("/mtr", api.UpsertMtrHandler(svcs.Mtr))
			writes.Post("/mtr/batch", api.BatchUpsertMtrHandler(svcs.Mtr))
			writes.Delete("/mtr/{id}", api.DeleteMtrHandler(svcs.Mtr))
		})
	})
}
