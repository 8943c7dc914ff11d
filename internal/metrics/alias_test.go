package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveReturnsFullSetForAliasedID(t *testing.T) {
	aliases := NewAliasSets([][]string{
		{"id-1", "id-2"},
		{"id-3", "id-4", "id-5"},
	})

	set := aliases.Resolve("id-4")
	require.ElementsMatch(t, []string{"id-3", "id-4", "id-5"}, set)
	require.True(t, aliases.IsAliased("id-4"))
}

func TestResolveSingletonForUnknownID(t *testing.T) {
	aliases := NewAliasSets([][]string{{"id-1", "id-2"}})

	require.Equal(t, []string{"solo-org"}, aliases.Resolve("solo-org"))
	require.False(t, aliases.IsAliased("solo-org"))
}

func TestResolveIsNormalizationInsensitive(t *testing.T) {
	aliases := NewAliasSets([][]string{{"ID-1", "id-2"}})

	require.ElementsMatch(t, []string{"ID-1", "id-2"}, aliases.Resolve("  id-1  "))
	require.True(t, aliases.IsAliased("Id-2"))
}

func TestAliasSetMetricsEqualSumAcrossWholeSet(t *testing.T) {
	aliases := NewAliasSets([][]string{{"id-1", "id-2"}})
	table := usageTable(
		row("id-1", 100),
		row("id-2", 250),
	)
	refDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	// Querying either member must aggregate the whole set.
	pair := Compute(table, aliases.Resolve("id-2"), refDate)
	require.Equal(t, 350.0, pair.Cumulative)
	require.Equal(t, 1050.0, pair.Forecasted)
}

func TestNewAliasSetsCopiesInput(t *testing.T) {
	raw := [][]string{{"id-1", "id-2"}}
	aliases := NewAliasSets(raw)
	raw[0][0] = "mutated"

	require.ElementsMatch(t, []string{"id-1", "id-2"}, aliases.Resolve("id-2"))
}
