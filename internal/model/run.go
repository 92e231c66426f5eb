package model

import "time"

// ProvisionRun is the persisted history record of one orchestration run.
// The full OrchestrationResult document is stored as JSON alongside the
// queryable summary columns.
type ProvisionRun struct {
	ID            string               `json:"id"`
	Slug          string               `json:"slug"`
	CompanyName   string               `json:"company_name"`
	Success       bool                 `json:"success"`
	FullyVerified bool                 `json:"fully_verified"`
	PlatformURL   string               `json:"platform_url,omitempty"`
	Error         string               `json:"error,omitempty"`
	Result        *OrchestrationResult `json:"result,omitempty"`
	StartedAt     time.Time            `json:"started_at"`
	CompletedAt   time.Time            `json:"completed_at"`
}
