package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"planhat-usage-sync/internal/model"
	"planhat-usage-sync/pkg/utils"
)

// Compute derives the cumulative and forecasted billable CPU totals for
// one set of org ids against the daily usage table. Pure: the table is
// never mutated, ids are compared trimmed and lowercased, and totals
// that fail numeric coercion count as zero. A set with no matching rows
// yields {0, 0}.
func Compute(table *model.UsageTable, orgIDs []string, refDate time.Time) model.MetricPair {
	wanted := make(map[string]bool, len(orgIDs))
	for _, id := range orgIDs {
		wanted[utils.NormalizeID(id)] = true
	}

	var cumulative float64
	for _, row := range table.Rows {
		rowID := utils.Stringify(row["OrganizationID"])
		if !wanted[utils.NormalizeID(rowID)] {
			continue
		}
		total, _ := utils.Numeric(row["Total"])
		cumulative += total
	}

	daysPassed := refDate.Day()
	daysInMonth := daysIn(refDate.Year(), refDate.Month())

	// Day-of-month is always >= 1; the guard is defensive.
	var averageDaily float64
	if daysPassed > 0 {
		averageDaily = cumulative / float64(daysPassed)
	}
	forecasted := averageDaily * float64(daysInMonth)

	return model.MetricPair{
		Cumulative: Round2(cumulative),
		Forecasted: Round2(forecasted),
	}
}

// daysIn returns the number of days in the given month, leap years included.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
