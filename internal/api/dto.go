package api

import "github.com/starford/pebblesync/internal/models"

// ImportResponse is returned after a completed import run.
type ImportResponse struct {
	Summary models.RunSummary `json:"summary"`
	Message string            `json:"message"`
}

// StatusResponse reports the importer's state for dashboards.
type StatusResponse struct {
	LastRun    *models.RunSummary `json:"last_run,omitempty"`
	LedgerSize int                `json:"ledger_size"`
}

// ResetResponse acknowledges a history reset.
type ResetResponse struct {
	Cleared bool `json:"cleared"`
}
