package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"planhat-usage-sync/internal/api/handler"
	"planhat-usage-sync/internal/pipeline"
	"planhat-usage-sync/pkg/router"
)

// RegisterRoutes wires the sync endpoints onto the router.
func RegisterRoutes(r *router.Router, deps pipeline.Deps) {
	h := handler.NewSyncHandler(deps)

	r.POST("/api/v1/syncs", h.TriggerSync)
	r.GET("/api/v1/syncs", h.ListSyncs)
	// More specific routes first
	r.GET("/api/v1/syncs/*/errors", h.GetSyncErrors)
	r.GET("/api/v1/syncs/*/logs", h.GetSyncLogs)
	r.GET("/api/v1/syncs/*/results", h.GetSyncResults)
	// Generic run route last
	r.GET("/api/v1/syncs/*", h.GetSync)

	r.GET("/swagger/*", func(w http.ResponseWriter, req *http.Request) {
		httpSwagger.WrapHandler(w, req)
	})
}
