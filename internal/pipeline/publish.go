package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"planhat-usage-sync/internal/model"
	"planhat-usage-sync/internal/store"
)

const (
	dimensionCumulative = "Cumulative Billable CPUs"
	dimensionForecasted = "Forecasted Billable CPUs"
	dimensionModel      = "Asset"
)

// publishCompany posts the two metric data points for one company.
// Failures are logged and recorded, never propagated: the batch moves on
// to the next company regardless.
func publishCompany(ctx context.Context, runID string, deps Deps, company model.Company, dateStr string, pair model.MetricPair) bool {
	points, err := buildDimensionPoints(company.OrgID, dateStr, pair)
	if err != nil {
		log.Printf("❌ Error building data points for Company Name: %s, %v", company.CompanyName, err)
		store.SaveRunError(runID, err)
		return false
	}

	log.Printf("⬆️ Updating Planhat for Company Name: %s", company.CompanyName)
	if err := deps.CRM.PushDimensionData(ctx, deps.Config.TenantID, points); err != nil {
		log.Printf("❌ Error updating Planhat for Company Name: %s, %v", company.CompanyName, err)
		store.SaveRunError(runID, err)
		store.SaveRunLog(runID, "publish", "error", "Planhat update failed", map[string]interface{}{
			"company_name": company.CompanyName,
			"org_id":       company.OrgID,
		})
		return false
	}
	log.Printf("✅ Planhat updated successfully for Company Name: %s", company.CompanyName)
	return true
}

// buildDimensionPoints constructs exactly two dated data points, one per
// dimension, tagged with the company's external org id. The date string
// round-trips through parsing as a validation side effect.
func buildDimensionPoints(orgID, dateStr string, pair model.MetricPair) ([]model.DimensionPoint, error) {
	uploadDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse upload date %q: %w", dateStr, err)
	}
	date := uploadDate.Format("2006-01-02")

	return []model.DimensionPoint{
		{
			DimensionID: dimensionCumulative,
			Value:       pair.Cumulative,
			ExternalID:  orgID,
			Model:       dimensionModel,
			Date:        date,
		},
		{
			DimensionID: dimensionForecasted,
			Value:       pair.Forecasted,
			ExternalID:  orgID,
			Model:       dimensionModel,
			Date:        date,
		},
	}, nil
}
