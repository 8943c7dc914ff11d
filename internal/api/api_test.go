package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "planhat-usage-sync/docs"
	"planhat-usage-sync/internal/config"
	"planhat-usage-sync/internal/model"
	"planhat-usage-sync/internal/pipeline"
	"planhat-usage-sync/internal/storage/blob"
	"planhat-usage-sync/internal/store"
	"planhat-usage-sync/pkg/router"
)

type stubCRM struct {
	companies []model.Company
	fetchErr  error
}

func (s *stubCRM) FetchCompanies(ctx context.Context, limit int) ([]model.Company, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.companies, nil
}

func (s *stubCRM) PushDimensionData(ctx context.Context, tenantID string, points []model.DimensionPoint) error {
	return nil
}

func newTestServer(t *testing.T, crm pipeline.CRM, files map[string]string) *httptest.Server {
	t.Helper()
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "test.db")))

	dir := t.TempDir()
	bucketDir := filepath.Join(dir, "billing")
	require.NoError(t, os.MkdirAll(bucketDir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(bucketDir, name), []byte(content), 0644))
	}
	bucket, err := blob.New(context.Background(), config.StorageConfig{
		Backend: "local",
		Local:   config.LocalDirConfig{Dir: dir},
	}, "billing")
	require.NoError(t, err)

	cfg := &config.Config{
		APIToken:     "tok",
		TenantID:     "tenant-1",
		BucketName:   "billing",
		RosterLimit:  500,
		CompanyPause: "0s",
	}

	r := router.New()
	RegisterRoutes(r, pipeline.Deps{Config: cfg, Blob: bucket, CRM: crm})

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func todayCSVName() string {
	return "usage-" + time.Now().UTC().Format("2006-01-02") + ".csv"
}

func TestTriggerSyncSuccess(t *testing.T) {
	crm := &stubCRM{companies: []model.Company{
		{PlanhatID: "ph-1", OrgID: "org-1", CompanyName: "Acme"},
	}}
	srv := newTestServer(t, crm, map[string]string{
		todayCSVName(): "OrganizationID,Total\norg-1,42\n",
	})

	resp, err := http.Post(srv.URL+"/api/v1/syncs", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Success", body["message"])
	runID, _ := body["runId"].(string)
	require.NotEmpty(t, runID)

	// The run and its results are inspectable afterwards.
	detail, err := http.Get(srv.URL + "/api/v1/syncs/" + runID)
	require.NoError(t, err)
	defer detail.Body.Close()
	require.Equal(t, http.StatusOK, detail.StatusCode)

	var rec model.RunRecord
	require.NoError(t, json.NewDecoder(detail.Body).Decode(&rec))
	require.Equal(t, model.RunCompleted, rec.Status)

	results, err := http.Get(srv.URL + "/api/v1/syncs/" + runID + "/results")
	require.NoError(t, err)
	defer results.Body.Close()
	require.Equal(t, http.StatusOK, results.StatusCode)
}

func TestTriggerSyncRosterFailure(t *testing.T) {
	crm := &stubCRM{fetchErr: errors.New("status 500")}
	srv := newTestServer(t, crm, map[string]string{
		todayCSVName(): "OrganizationID,Total\norg-1,42\n",
	})

	resp, err := http.Post(srv.URL+"/api/v1/syncs", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Failed to fetch companies", body["message"])
}

func TestTriggerSyncMissingCSV(t *testing.T) {
	crm := &stubCRM{}
	srv := newTestServer(t, crm, map[string]string{})

	resp, err := http.Post(srv.URL+"/api/v1/syncs", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "CSV data not available", body["message"])
}

func TestSwaggerDocServed(t *testing.T) {
	srv := newTestServer(t, &stubCRM{}, map[string]string{})

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	info, _ := doc["info"].(map[string]interface{})
	require.Equal(t, "Planhat Usage Sync API", info["title"])
	require.Contains(t, doc["paths"], "/syncs")
}

func TestGetSyncNotFound(t *testing.T) {
	srv := newTestServer(t, &stubCRM{}, map[string]string{})

	resp, err := http.Get(srv.URL + "/api/v1/syncs/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
