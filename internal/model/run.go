package model

import "time"

// Run statuses, in the order the orchestrator moves through them.
const (
	RunPending           = "pending"
	RunRunning           = "running"
	RunFetchingUsage     = "fetching-usage"
	RunFetchingCompanies = "fetching-companies"
	RunProcessing        = "processing"
	RunCompleted         = "completed"
	RunFailed            = "failed"
)

// RunRecord is one sync invocation as tracked in the store.
type RunRecord struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	HTTPStatus    int       `json:"http_status"`
	ExecutionDate string    `json:"execution_date"` // date the CSV is named with
	DataDate      string    `json:"data_date"`      // date the metrics are labeled with
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RunLog is one persisted log line for a run stage.
type RunLog struct {
	Stage     string                 `json:"stage"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// CompanyResult is the outcome of processing one roster company.
type CompanyResult struct {
	PlanhatID   string  `json:"planhat_id"`
	CompanyName string  `json:"company_name"`
	OrgID       string  `json:"org_id"`
	Cumulative  float64 `json:"cumulative"`
	Forecasted  float64 `json:"forecasted"`
	Published   bool    `json:"published"`
}
