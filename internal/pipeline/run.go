package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"planhat-usage-sync/internal/config"
	"planhat-usage-sync/internal/metrics"
	"planhat-usage-sync/internal/model"
	"planhat-usage-sync/internal/storage/blob"
	"planhat-usage-sync/internal/store"
	"planhat-usage-sync/internal/usage"
)

// Overall run outcomes. Upstream failures are fatal for the whole run;
// per-company publish failures are not.
const (
	MsgSuccess          = "Success"
	MsgNoCSV            = "CSV data not available"
	MsgCompaniesFailure = "Failed to fetch companies"
)

// CRM is the slice of the Planhat client the pipeline needs.
type CRM interface {
	FetchCompanies(ctx context.Context, limit int) ([]model.Company, error)
	PushDimensionData(ctx context.Context, tenantID string, points []model.DimensionPoint) error
}

// Deps carries the collaborators for one run.
type Deps struct {
	Config *config.Config
	Blob   blob.Store
	CRM    CRM
}

// Execute starts a tracked sync run: locate and parse the daily CSV,
// fetch the company roster, then compute and publish metrics company by
// company. It returns the run id plus the overall status message and
// HTTP code for the invocation.
func Execute(ctx context.Context, deps Deps) (runID, message string, code int) {
	runID = uuid.New().String()

	// The CSV is named with the day it is delivered; the totals inside
	// are for the prior day, which is what the metrics get labeled with.
	executionDate := time.Now().UTC()
	dataDate := executionDate.AddDate(0, 0, -1)

	if err := store.SaveRun(runID, executionDate.Format("2006-01-02"), dataDate.Format("2006-01-02")); err != nil {
		log.Printf("❌ Failed to record run %s: %v", runID, err)
	}

	message, code = run(ctx, runID, deps, executionDate)
	return runID, message, code
}

func run(ctx context.Context, runID string, deps Deps, executionDate time.Time) (string, int) {
	start := time.Now()
	fmt.Printf("🚀 Starting sync run: %s\n", runID)
	store.UpdateRunStatus(runID, model.RunRunning)

	dataDate := executionDate.AddDate(0, 0, -1)
	dateStr := dataDate.Format("2006-01-02")

	// --- USAGE CSV ---
	store.UpdateRunStatus(runID, model.RunFetchingUsage)
	store.SaveRunLog(runID, "usage", "info", "Fetching daily usage CSV", map[string]interface{}{
		"execution_date": executionDate.Format("2006-01-02"),
		"data_date":      dateStr,
	})

	table, err := usage.FetchDaily(ctx, deps.Blob, executionDate.Format("2006-01-02"))
	if err != nil {
		log.Printf("❌ Usage fetch failed: %v", err)
		store.SaveRunError(runID, err)
	}
	if table == nil {
		// Bucket missing, access denied, provider error and "no file for
		// this date" all collapse to the same outcome.
		store.FinishRun(runID, model.RunFailed, MsgNoCSV, http.StatusInternalServerError)
		return MsgNoCSV, http.StatusInternalServerError
	}

	// --- COMPANY ROSTER ---
	store.UpdateRunStatus(runID, model.RunFetchingCompanies)
	companies, err := deps.CRM.FetchCompanies(ctx, deps.Config.RosterLimit)
	if err != nil {
		log.Printf("❌ Roster fetch failed: %v", err)
		store.SaveRunError(runID, err)
		store.FinishRun(runID, model.RunFailed, MsgCompaniesFailure, http.StatusInternalServerError)
		return MsgCompaniesFailure, http.StatusInternalServerError
	}
	store.SaveRunLog(runID, "roster", "info", "Fetched company roster", map[string]interface{}{
		"companies_count": len(companies),
		"limit":           deps.Config.RosterLimit,
	})

	// --- PER-COMPANY PROCESSING ---
	store.UpdateRunStatus(runID, model.RunProcessing)
	aliases := metrics.NewAliasSets(deps.Config.AliasSets)
	pause := deps.Config.Pause()

	for _, company := range companies {
		if company.OrgID == "" {
			log.Printf("⚠️ Company '%s' does not have an Org ID. Skipping.", company.CompanyName)
			store.SaveRunLog(runID, "processing", "warning", "Company has no Org ID, skipped", map[string]interface{}{
				"company_name": company.CompanyName,
				"planhat_id":   company.PlanhatID,
			})
			continue
		}

		orgIDs := aliases.Resolve(company.OrgID)
		if len(orgIDs) > 1 {
			log.Printf("🏢 Company '%s' uses multiple Org IDs: %v", company.CompanyName, orgIDs)
		} else {
			log.Printf("🏢 Company '%s' uses single Org ID: %s", company.CompanyName, company.OrgID)
		}

		pair := metrics.Compute(table, orgIDs, dataDate)
		log.Printf("📊 %s: date=%s cumulative=%.2f forecasted=%.2f", company.CompanyName, dateStr, pair.Cumulative, pair.Forecasted)

		published := publishCompany(ctx, runID, deps, company, dateStr, pair)

		store.SaveCompanyMetrics(runID, model.CompanyResult{
			PlanhatID:   company.PlanhatID,
			CompanyName: company.CompanyName,
			OrgID:       company.OrgID,
			Cumulative:  pair.Cumulative,
			Forecasted:  pair.Forecasted,
			Published:   published,
		})

		// Unconditional courtesy delay between companies, errors included.
		time.Sleep(pause)
	}

	duration := time.Since(start)
	fmt.Printf("🏁 Sync run completed: %s in %v\n", runID, duration)
	store.FinishRun(runID, model.RunCompleted, MsgSuccess, http.StatusOK)
	return MsgSuccess, http.StatusOK
}
