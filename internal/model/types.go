package model

// UsageRow is a single parsed row from the daily billing CSV.
// Values are kept schema-agnostic; the metrics calculator coerces
// what it needs (non-numeric totals count as zero).
type UsageRow map[string]interface{}

// UsageTable is the current day's billing CSV loaded in memory.
// It is immutable after parsing and shared by every company iteration.
type UsageTable struct {
	Headers   []string   `json:"headers"`
	Rows      []UsageRow `json:"rows"`
	SourceKey string     `json:"source_key"` // object key the table was parsed from
}

// Company is one roster entry from the Planhat companies endpoint.
type Company struct {
	PlanhatID   string `json:"planhat_id"`
	OrgID       string `json:"org_id"` // empty when the custom field is missing
	CompanyName string `json:"company_name"`
}

// MetricPair holds the two derived usage metrics for one company
// and one reference date, rounded to 2 decimal places.
type MetricPair struct {
	Cumulative float64 `json:"cumulative"`
	Forecasted float64 `json:"forecasted"`
}

// DimensionPoint is one time-series data point written to the
// Planhat analytics dimension-data endpoint.
type DimensionPoint struct {
	DimensionID string  `json:"dimensionId"`
	Value       float64 `json:"value"`
	ExternalID  string  `json:"externalId"`
	Model       string  `json:"model"`
	Date        string  `json:"date"`
}
