package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"planhat-usage-sync/internal/model"
)

func usageTable(rows ...model.UsageRow) *model.UsageTable {
	return &model.UsageTable{
		Headers: []string{"OrganizationID", "Total"},
		Rows:    rows,
	}
}

func row(orgID string, total interface{}) model.UsageRow {
	return model.UsageRow{"OrganizationID": orgID, "Total": total}
}

func TestComputeCoercesNonNumericTotalsToZero(t *testing.T) {
	table := usageTable(
		row("org1", 100),
		row("org1", "not-a-number"),
		row("org1", 50),
	)
	// Day 10 of a 30-day month.
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	pair := Compute(table, []string{"org1"}, refDate)
	require.Equal(t, 150.0, pair.Cumulative)
	require.Equal(t, 450.0, pair.Forecasted)
}

func TestComputeNormalizesIDsBothWays(t *testing.T) {
	table := usageTable(
		row(" OrgA ", 10),
		row("orga", 20),
		row("ORGA", 30),
		row("orgb", 999),
	)
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	for _, queried := range []string{"orga", "ORGA", "  OrgA  "} {
		pair := Compute(table, []string{queried}, refDate)
		require.Equal(t, 60.0, pair.Cumulative, "queried as %q", queried)
	}
}

func TestComputeMatchesNumericOrgIDs(t *testing.T) {
	// CSV cells that look numeric are stored as int/float, not string.
	table := usageTable(
		model.UsageRow{"OrganizationID": 12345, "Total": 100},
		model.UsageRow{"OrganizationID": 12345, "Total": 50},
		model.UsageRow{"OrganizationID": 99.5, "Total": 7},
	)
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	pair := Compute(table, []string{"12345"}, refDate)
	require.Equal(t, 150.0, pair.Cumulative)
	require.Equal(t, 450.0, pair.Forecasted)

	pair = Compute(table, []string{" 99.5 "}, refDate)
	require.Equal(t, 7.0, pair.Cumulative)
}

func TestComputeAggregatesAcrossIDSet(t *testing.T) {
	table := usageTable(
		row("id-1", 100),
		row("id-2", 200),
		row("id-3", 400),
	)
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	pair := Compute(table, []string{"id-1", "id-2"}, refDate)
	require.Equal(t, 300.0, pair.Cumulative)
	require.Equal(t, 900.0, pair.Forecasted)
}

func TestComputeZeroMatchingRows(t *testing.T) {
	table := usageTable(row("someone-else", 500))
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	pair := Compute(table, []string{"nobody"}, refDate)
	require.Equal(t, 0.0, pair.Cumulative)
	require.Equal(t, 0.0, pair.Forecasted)
}

func TestComputeLeapYearFebruary(t *testing.T) {
	table := usageTable(row("org1", 300))
	// 2024 is a leap year: February has 29 days, day 10 has passed.
	refDate := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	pair := Compute(table, []string{"org1"}, refDate)
	require.Equal(t, 300.0, pair.Cumulative)
	require.Equal(t, 870.0, pair.Forecasted)
}

func TestComputeDoesNotMutateTable(t *testing.T) {
	table := usageTable(row(" OrgA ", "12.5"))
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	Compute(table, []string{"orga"}, refDate)
	require.Equal(t, " OrgA ", table.Rows[0]["OrganizationID"])
	require.Equal(t, "12.5", table.Rows[0]["Total"])
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	require.Equal(t, 150.01, Round2(150.005))
	require.Equal(t, -150.01, Round2(-150.005))
	require.Equal(t, 1.25, Round2(1.25))
	require.Equal(t, 33.33, Round2(100.0/3.0))
}

func TestDaysIn(t *testing.T) {
	require.Equal(t, 29, daysIn(2024, time.February))
	require.Equal(t, 28, daysIn(2023, time.February))
	require.Equal(t, 31, daysIn(2024, time.December))
	require.Equal(t, 30, daysIn(2024, time.April))
}
