package model

// Step IDs in declared dependency order.
const (
	StepPreflightCleanup = "preflight-cleanup"
	StepDatabase         = "database"
	StepSchemaMigration  = "schema-migration"
	StepVoiceAgent       = "voice-agent"
	StepRepository       = "repository"
	StepHosting          = "hosting"
	StepAuthConfig       = "auth-config"
	StepDeployTrigger    = "deploy-trigger"
	StepDeployVerify     = "deploy-verify"
	StepNotify           = "notify"
)

// StepDef describes one step of the provisioning sequence. Fatal steps
// abort the run and trigger rollback on failure; non-fatal steps are
// downgraded to a warning. HasProbe marks steps with an independent
// readiness verification, which feeds the FullyVerified flag.
type StepDef struct {
	ID       string `json:"id"`
	Fatal    bool   `json:"fatal"`
	HasProbe bool   `json:"has_probe"`
}

// DeclaredSteps is the fixed, dependency-ordered step sequence. The
// ledger of every run contains exactly these steps in this order.
func DeclaredSteps() []StepDef {
	return []StepDef{
		{ID: StepPreflightCleanup, Fatal: false, HasProbe: false},
		{ID: StepDatabase, Fatal: true, HasProbe: true},
		{ID: StepSchemaMigration, Fatal: true, HasProbe: true},
		{ID: StepVoiceAgent, Fatal: false, HasProbe: true},
		{ID: StepRepository, Fatal: true, HasProbe: true},
		{ID: StepHosting, Fatal: true, HasProbe: false},
		{ID: StepAuthConfig, Fatal: false, HasProbe: false},
		{ID: StepDeployTrigger, Fatal: true, HasProbe: false},
		{ID: StepDeployVerify, Fatal: true, HasProbe: true},
		{ID: StepNotify, Fatal: false, HasProbe: false},
	}
}

// StepRecord is one entry in the run's step ledger.
type StepRecord struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	Message            string `json:"message,omitempty"`
	Error              string `json:"error,omitempty"`
	DurationMs         int64  `json:"duration_ms"`
	Verified           *bool  `json:"verified,omitempty"`
	VerificationDetail string `json:"verification_detail,omitempty"`
}

// VerificationResult is the outcome of a readiness probe run by an
// adapter activity.
type VerificationResult struct {
	Verified      bool   `json:"verified"`
	Detail        string `json:"detail,omitempty"`
	TerminalState string `json:"terminal_state,omitempty"`
}
