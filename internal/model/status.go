package model

// Step status constants. Transitions only move forward:
// pending → running → (verifying) → success | warning | error | skipped.
const (
	StepPending   = "pending"
	StepRunning   = "running"
	StepVerifying = "verifying"
	StepSuccess   = "success"
	StepError     = "error"
	StepSkipped   = "skipped"
	StepWarning   = "warning"
)

// Per-resource deletion outcomes used by cleanup and rollback reports.
const (
	DeleteOutcomeDeleted  = "deleted"
	DeleteOutcomeNotFound = "not_found"
	DeleteOutcomeError    = "error"
)

// Resource kind constants.
const (
	ResourceDatabase   = "database"
	ResourceRepository = "repository"
	ResourceHosting    = "hosting"
	ResourceVoiceAgent = "voice_agent"
)
