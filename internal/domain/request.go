package domain

// RunInput is the caller-supplied input for a run.
type RunInput struct {
	Goal string `json:"goal"`
}

// BudgetSpec is the optional per-run budget override.
type BudgetSpec struct {
	CapUsd float64 `json:"cap_usd"`
}

// StartRunRequest is the body of POST /v1/run.
type StartRunRequest struct {
	Input  RunInput    `json:"input"`
	Budget *BudgetSpec `json:"budget,omitempty"`
}

// StartRunResponse is the response of POST /v1/run.
type StartRunResponse struct {
	RunID string `json:"run_id"`
}

// RunStatusResponse is the response of GET /v1/status/:run_id.
type RunStatusResponse struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	Artifacts []Artifact `json:"artifacts"`
	Budget    Budget     `json:"budget"`
}

// RunSummary is one entry of GET /v1/runs.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Status    RunStatus `json:"status"`
	Budget    Budget    `json:"budget"`
	CreatedAt int64     `json:"created_at"` // Unix milliseconds
}

// MaintenanceRequest is the body of POST /maintenance/ttl.
type MaintenanceRequest struct {
	Op      string `json:"op"`
	MaxRows int    `json:"max_rows,omitempty"`
}

// MaintenanceResponse is the response of POST /maintenance/ttl.
type MaintenanceResponse struct {
	OK       bool  `json:"ok"`
	Affected int64 `json:"affected"`
}
