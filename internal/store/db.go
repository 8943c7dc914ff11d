package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"planhat-usage-sync/internal/model"
)

var db *sql.DB

// InitDB opens the SQLite database and creates the tracking tables.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		message TEXT,
		http_status INTEGER,
		execution_date TEXT,
		data_date TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	logTable := `
	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		level TEXT,
		message TEXT,
		details TEXT,
		created_at DATETIME
	);
	`
	metricsTable := `
	CREATE TABLE IF NOT EXISTS company_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		planhat_id TEXT,
		company_name TEXT,
		org_id TEXT,
		cumulative REAL,
		forecasted REAL,
		published INTEGER,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, logTable, metricsTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records a new sync run in pending state.
func SaveRun(runID, executionDate, dataDate string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, status, message, http_status, execution_date, data_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, model.RunPending, "", 0, executionDate, dataDate, now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// FinishRun stores the final status, overall message and HTTP code of a run.
func FinishRun(runID, status, message string, httpStatus int) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, message = ?, http_status = ?, updated_at = ? WHERE id = ?`,
		status, message, httpStatus, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveRunLog stores a structured log entry for a run stage.
func SaveRunLog(runID, stage, level, message string, details map[string]interface{}) error {
	var detailsJSON []byte
	if details != nil {
		detailsJSON, _ = json.Marshal(details)
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, string(detailsJSON), now)
	return err
}

// SaveCompanyMetrics stores the computed metrics for one company in a run.
func SaveCompanyMetrics(runID string, result model.CompanyResult) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO company_metrics (run_id, planhat_id, company_name, org_id, cumulative, forecasted, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.PlanhatID, result.CompanyName, result.OrgID, result.Cumulative, result.Forecasted, result.Published, now)
	return err
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]model.RunRecord, error) {
	rows, err := db.Query(`SELECT id, status, message, http_status, execution_date, data_date, created_at, updated_at
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		if err := rows.Scan(&r.ID, &r.Status, &r.Message, &r.HTTPStatus, &r.ExecutionDate, &r.DataDate, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by id.
func GetRun(runID string) (*model.RunRecord, error) {
	var r model.RunRecord
	err := db.QueryRow(`SELECT id, status, message, http_status, execution_date, data_date, created_at, updated_at
		FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.Status, &r.Message, &r.HTTPStatus, &r.ExecutionDate, &r.DataDate, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRunErrors returns all recorded errors for a run.
func GetRunErrors(runID string) ([]string, error) {
	rows, err := db.Query(`SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		errs = append(errs, msg)
	}
	return errs, rows.Err()
}

// GetRunLogs returns the persisted log entries for a run.
func GetRunLogs(runID string) ([]model.RunLog, error) {
	rows, err := db.Query(`SELECT stage, level, message, details, created_at FROM run_logs WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.RunLog
	for rows.Next() {
		var entry model.RunLog
		var detailsJSON string
		if err := rows.Scan(&entry.Stage, &entry.Level, &entry.Message, &detailsJSON, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if detailsJSON != "" {
			_ = json.Unmarshal([]byte(detailsJSON), &entry.Details)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// GetCompanyMetrics returns the per-company results for a run in insertion order.
func GetCompanyMetrics(runID string) ([]model.CompanyResult, error) {
	rows, err := db.Query(`SELECT planhat_id, company_name, org_id, cumulative, forecasted, published
		FROM company_metrics WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.CompanyResult
	for rows.Next() {
		var r model.CompanyResult
		if err := rows.Scan(&r.PlanhatID, &r.CompanyName, &r.OrgID, &r.Cumulative, &r.Forecasted, &r.Published); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
