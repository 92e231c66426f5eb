package model

// TaskQueue is the Temporal task queue all provisioning workflows and
// activities run on.
const TaskQueue = "launchpad-tasks"

// ProvisioningRequest describes one tenant instance to provision. It is
// created once per run and never mutated.
type ProvisioningRequest struct {
	CompanyName string         `json:"company_name"`
	// Slug, when set, replaces the slug derived from CompanyName. Needed
	// for company names that do not slugify to anything usable.
	Slug        string         `json:"slug,omitempty"`
	AdminEmail  string         `json:"admin_email"`
	AdminName   string         `json:"admin_name,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Branding    map[string]any `json:"branding,omitempty"`

	SkipPreflightCleanup bool   `json:"skip_preflight_cleanup,omitempty"`
	RollbackOnFailure    bool   `json:"rollback_on_failure"`
	PlatformMode         string `json:"platform_mode,omitempty"`
}

// OrchestrationResult is the single document produced by every run,
// successful or not. Success means no fatal step errored; FullyVerified
// means every step that defines a readiness probe reported verified.
type OrchestrationResult struct {
	Success       bool             `json:"success"`
	FullyVerified bool             `json:"fully_verified"`
	Slug          string           `json:"slug"`
	PlatformURL   string           `json:"platform_url,omitempty"`
	Steps         []StepRecord     `json:"steps"`
	Resources     ResourceRegistry `json:"resources"`
	Rollback      *RollbackReport  `json:"rollback,omitempty"`
	Error         string           `json:"error,omitempty"`
	DurationMs    int64            `json:"duration_ms"`
}
