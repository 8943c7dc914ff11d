package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"planhat-usage-sync/internal/pipeline"
	"planhat-usage-sync/internal/store"
)

// SyncHandler serves the sync trigger and run-inspection endpoints.
type SyncHandler struct {
	Deps pipeline.Deps
}

func NewSyncHandler(deps pipeline.Deps) *SyncHandler {
	return &SyncHandler{Deps: deps}
}

// TriggerSync runs one full sync synchronously
// @Summary Trigger a sync run
// @Description Download the daily usage CSV, fetch the company roster and push metrics to Planhat. Blocks until the run finishes.
// @Tags syncs
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Run completed"
// @Failure 500 {object} map[string]interface{} "Configuration or upstream fetch failure"
// @Router /syncs [post]
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	runID, message, code := pipeline.Execute(r.Context(), h.Deps)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": message,
		"runId":   runID,
	})
}

// ListSyncs retrieves all sync runs
// @Summary List sync runs
// @Tags syncs
// @Produce json
// @Success 200 {array} model.RunRecord "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs [get]
func (h *SyncHandler) ListSyncs(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetSync retrieves a specific sync run
// @Summary Get sync run
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunRecord "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /syncs/{id} [get]
func (h *SyncHandler) GetSync(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch run", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetSyncErrors retrieves errors recorded for a run
// @Summary Get sync run errors
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs/{id}/errors [get]
func (h *SyncHandler) GetSyncErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/errors")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetSyncLogs retrieves persisted stage logs for a run
// @Summary Get sync run logs
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run logs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs/{id}/logs [get]
func (h *SyncHandler) GetSyncLogs(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/logs")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	logs, err := store.GetRunLogs(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"logs":   logs,
		"count":  len(logs),
	})
}

// GetSyncResults retrieves per-company metrics computed in a run
// @Summary Get sync run results
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Per-company results"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs/{id}/results [get]
func (h *SyncHandler) GetSyncResults(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/results")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	results, err := store.GetCompanyMetrics(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"results": results,
		"count":   len(results),
	})
}

// runIDFromPath extracts the run id between the API prefix and an
// optional suffix like "/errors".
func runIDFromPath(path, suffix string) (string, bool) {
	const prefix = "/api/v1/syncs/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	runID := path[len(prefix) : len(path)-len(suffix)]
	return runID, runID != "" && !strings.Contains(runID, "/")
}
