package workflow

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/edvin/launchpad/internal/activity"
	"github.com/edvin/launchpad/internal/model"
	"github.com/edvin/launchpad/internal/platform"
)

// ProvisionTenantWorkflow provisions a complete tenant instance: database
// project, schema, voice agent, source repository, hosting project, auth
// wiring, deployment and welcome notification, in that dependency order.
//
// Every run produces exactly one OrchestrationResult with a complete step
// ledger, whether it succeeds or not — callers never see a bare failure.
// A fatal step failure aborts the remaining sequence, rolls back every
// resource created so far (unless the request disables it) and preserves
// the original cause in the result.
func ProvisionTenantWorkflow(ctx workflow.Context, req model.ProvisioningRequest) (*model.OrchestrationResult, error) {
	logger := workflow.GetLogger(ctx)
	started := workflow.Now(ctx)
	slug := req.Slug
	if slug == "" {
		slug = platform.Slugify(req.CompanyName)
	}

	led := newLedger()
	reg := &model.ResourceRegistry{}

	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())

	finish := func(result *model.OrchestrationResult) *model.OrchestrationResult {
		result.Slug = slug
		result.Steps = led.records()
		result.Resources = *reg
		result.FullyVerified = led.fullyVerified()
		result.DurationMs = workflow.Now(ctx).Sub(started).Milliseconds()
		recordRun(ctx, req, slug, started, result)
		return result
	}

	fatal := func(stepID string, cause error) (*model.OrchestrationResult, error) {
		logger.Error("fatal provisioning step failed", "step", stepID, "slug", slug, "error", cause)
		led.skipRemaining(ctx, "aborted: "+stepID+" failed")

		result := &model.OrchestrationResult{Success: false, Error: cause.Error()}
		if !req.RollbackOnFailure {
			result.Rollback = &model.RollbackReport{Performed: false}
		} else if reg.Empty() {
			result.Rollback = &model.RollbackReport{Performed: false}
		} else {
			result.Rollback = performRollback(ctx, *reg)
		}
		return finish(result), nil
	}

	// --- pre-flight cleanup (non-fatal) ---
	if req.SkipPreflightCleanup {
		led.skip(ctx, model.StepPreflightCleanup, "disabled by request")
	} else {
		led.start(ctx, model.StepPreflightCleanup)
		var report model.CleanupReport
		err := workflow.ExecuteActivity(cleanupCtx(ctx), "PreflightCleanup", slug).Get(ctx, &report)
		switch {
		case err != nil:
			led.warn(ctx, model.StepPreflightCleanup, "cleanup could not run; stale resources may collide", err)
		case !report.Clean():
			led.warn(ctx, model.StepPreflightCleanup, "stale resources remain; creation may collide downstream", nil)
		case report.Deleted() > 0:
			led.succeed(ctx, model.StepPreflightCleanup,
				fmt.Sprintf("removed stale resources from a prior run (%d kinds)", report.Deleted()))
		default:
			led.succeed(ctx, model.StepPreflightCleanup, "no stale resources found")
		}
	}

	// --- database project (fatal, verified) ---
	led.start(ctx, model.StepDatabase)
	var dbRes model.DatabaseResource
	err := workflow.ExecuteActivity(ctx, "CreateDatabaseProject",
		activity.CreateDatabaseProjectParams{Slug: slug}).Get(ctx, &dbRes)
	if err != nil {
		led.fail(ctx, model.StepDatabase, err)
		return fatal(model.StepDatabase, err)
	}

	led.verifying(model.StepDatabase)
	ver := runVerification(ctx, verifyCtx(ctx, endpointVerifyTimeout), "VerifyDatabaseEndpoint", dbRes.ProjectID)
	led.setVerification(model.StepDatabase, ver)
	if !ver.Verified {
		verErr := errors.New("database endpoint verification failed: " + ver.Detail)
		led.fail(ctx, model.StepDatabase, verErr)
		return fatal(model.StepDatabase, verErr)
	}
	led.succeed(ctx, model.StepDatabase, "project "+dbRes.ProjectID+" created and answering")
	reg.Database = &dbRes

	// --- schema migration (fatal, verified) ---
	led.start(ctx, model.StepSchemaMigration)
	err = workflow.ExecuteActivity(ctx, "RunSchemaMigration", dbRes.ProjectID).Get(ctx, nil)
	if err != nil {
		led.fail(ctx, model.StepSchemaMigration, err)
		return fatal(model.StepSchemaMigration, err)
	}

	led.verifying(model.StepSchemaMigration)
	ver = runVerification(ctx, verifyCtx(ctx, schemaVerifyTimeout), "VerifySchema", dbRes.ProjectID)
	led.setVerification(model.StepSchemaMigration, ver)
	if !ver.Verified {
		verErr := errors.New("schema verification failed: " + ver.Detail)
		led.fail(ctx, model.StepSchemaMigration, verErr)
		return fatal(model.StepSchemaMigration, verErr)
	}
	led.succeed(ctx, model.StepSchemaMigration, "expected tables present")

	// --- voice agent and repository (independent; run concurrently) ---
	// The voice agent is non-fatal, the repository fatal. Records land in
	// the ledger in declared order regardless of completion order.
	led.start(ctx, model.StepVoiceAgent)
	led.start(ctx, model.StepRepository)

	voiceFut := workflow.ExecuteActivity(ctx, "CreateVoiceAgent", activity.CreateVoiceAgentParams{
		Slug:        slug,
		CompanyName: req.CompanyName,
		Branding:    req.Branding,
	})
	repoFut := workflow.ExecuteActivity(ctx, "CreateRepository", activity.CreateRepositoryParams{
		Slug:        slug,
		CompanyName: req.CompanyName,
	})

	var voiceRes model.VoiceAgentResource
	if err := voiceFut.Get(ctx, &voiceRes); err != nil {
		led.warn(ctx, model.StepVoiceAgent, "voice agent creation failed; tenant continues without one", err)
	} else {
		led.verifying(model.StepVoiceAgent)
		ver = runVerification(ctx, verifyCtx(ctx, voiceVerifyTimeout), "VerifyVoiceAgent", voiceRes.AgentID)
		led.setVerification(model.StepVoiceAgent, ver)
		if ver.Verified {
			led.succeed(ctx, model.StepVoiceAgent, "agent "+voiceRes.AgentID+" published")
			reg.VoiceAgent = &voiceRes
		} else {
			led.warn(ctx, model.StepVoiceAgent, "voice agent not publishable: "+ver.Detail, nil)
		}
	}

	var repoRes model.RepositoryResource
	if err := repoFut.Get(ctx, &repoRes); err != nil {
		led.fail(ctx, model.StepRepository, err)
		return fatal(model.StepRepository, err)
	}
	led.verifying(model.StepRepository)
	ver = runVerification(ctx, verifyCtx(ctx, repoVerifyTimeout), "VerifyRepository", repoRes.Name)
	led.setVerification(model.StepRepository, ver)
	if !ver.Verified {
		verErr := errors.New("repository verification failed: " + ver.Detail)
		led.fail(ctx, model.StepRepository, verErr)
		return fatal(model.StepRepository, verErr)
	}
	led.succeed(ctx, model.StepRepository, "repository "+repoRes.Name+" seeded from template")
	reg.Repository = &repoRes

	// --- hosting project (fatal) ---
	led.start(ctx, model.StepHosting)
	var hostRes model.HostingResource
	err = workflow.ExecuteActivity(ctx, "CreateHostingProject", activity.CreateHostingProjectParams{
		Slug:     slug,
		RepoName: repoRes.Name,
		Env:      hostingEnv(&dbRes, req),
	}).Get(ctx, &hostRes)
	if err != nil {
		led.fail(ctx, model.StepHosting, err)
		return fatal(model.StepHosting, err)
	}
	led.succeed(ctx, model.StepHosting, "project "+hostRes.ProjectID+" linked to "+repoRes.Name)
	reg.Hosting = &hostRes

	// --- auth configuration (non-fatal) ---
	led.start(ctx, model.StepAuthConfig)
	err = workflow.ExecuteActivity(ctx, "ConfigureAuth", activity.ConfigureAuthParams{
		ProjectID:  hostRes.ProjectID,
		SiteURL:    hostRes.URL,
		AdminEmail: req.AdminEmail,
	}).Get(ctx, nil)
	if err != nil {
		led.warn(ctx, model.StepAuthConfig, "auth configuration failed; finish manually in the provider console", err)
	} else {
		led.succeed(ctx, model.StepAuthConfig, "auth provider pointed at "+hostRes.URL)
	}

	// --- deploy trigger (fatal) ---
	led.start(ctx, model.StepDeployTrigger)
	var deploymentID string
	err = workflow.ExecuteActivity(ctx, "TriggerDeploy", hostRes.ProjectID).Get(ctx, &deploymentID)
	if err != nil {
		led.fail(ctx, model.StepDeployTrigger, err)
		return fatal(model.StepDeployTrigger, err)
	}
	led.succeed(ctx, model.StepDeployTrigger, "deployment "+deploymentID+" started")
	reg.Hosting.DeploymentID = deploymentID

	// --- deploy verification (fatal, probe-only step) ---
	led.start(ctx, model.StepDeployVerify)
	led.verifying(model.StepDeployVerify)
	ver = runVerification(ctx, verifyCtx(ctx, deployVerifyTimeout), "VerifyDeployment",
		activity.VerifyDeploymentParams{ProjectID: hostRes.ProjectID, SiteURL: hostRes.URL})
	led.setVerification(model.StepDeployVerify, ver)
	if !ver.Verified {
		verErr := errors.New("deployment verification failed: " + ver.Detail)
		led.fail(ctx, model.StepDeployVerify, verErr)
		return fatal(model.StepDeployVerify, verErr)
	}
	led.succeed(ctx, model.StepDeployVerify, ver.Detail)

	// --- welcome notification (non-fatal) ---
	led.start(ctx, model.StepNotify)
	err = workflow.ExecuteActivity(ctx, "SendWelcomeNotification", activity.SendWelcomeParams{
		Recipient:   req.AdminEmail,
		AdminName:   req.AdminName,
		CompanyName: req.CompanyName,
		PlatformURL: hostRes.URL,
	}).Get(ctx, nil)
	if err != nil {
		led.warn(ctx, model.StepNotify, "welcome notification not delivered", err)
	} else {
		led.succeed(ctx, model.StepNotify, "welcome sent to "+req.AdminEmail)
	}

	return finish(&model.OrchestrationResult{
		Success:     true,
		PlatformURL: hostRes.URL,
	}), nil
}

// runVerification executes a verification activity and folds an activity
// level failure (timeout, worker loss) into a negative verification
// result rather than a workflow error.
func runVerification(ctx, actCtx workflow.Context, name string, arg any) *model.VerificationResult {
	var ver model.VerificationResult
	if err := workflow.ExecuteActivity(actCtx, name, arg).Get(ctx, &ver); err != nil {
		return &model.VerificationResult{Verified: false, Detail: err.Error(), TerminalState: "error"}
	}
	return &ver
}

// hostingEnv builds the environment the hosted application needs, wiring
// the database credentials through to the deployment.
func hostingEnv(db *model.DatabaseResource, req model.ProvisioningRequest) map[string]string {
	env := map[string]string{
		"DATABASE_URL":      db.ConnectionURL,
		"DATABASE_HOST":     db.Host,
		"DATABASE_NAME":     db.DBName,
		"DATABASE_USER":     db.Role,
		"DATABASE_PASSWORD": db.Password,
	}
	if req.PlatformMode != "" {
		env["PLATFORM_MODE"] = req.PlatformMode
	}
	return env
}

// recordRun persists and archives the final result. Both writes are
// best-effort: history must never change a run's outcome.
func recordRun(ctx workflow.Context, req model.ProvisioningRequest, slug string, started time.Time, result *model.OrchestrationResult) {
	logger := workflow.GetLogger(ctx)
	info := workflow.GetInfo(ctx)
	runID := info.WorkflowExecution.RunID

	rec := model.ProvisionRun{
		ID:            runID,
		Slug:          slug,
		CompanyName:   req.CompanyName,
		Success:       result.Success,
		FullyVerified: result.FullyVerified,
		PlatformURL:   result.PlatformURL,
		Error:         result.Error,
		Result:        result,
		StartedAt:     started,
		CompletedAt:   workflow.Now(ctx),
	}
	if err := workflow.ExecuteActivity(recordCtx(ctx), "RecordProvisionRun", rec).Get(ctx, nil); err != nil {
		logger.Error("failed to record provision run", "run_id", runID, "error", err)
	}

	err := workflow.ExecuteActivity(recordCtx(ctx), "ArchiveRunResult", activity.ArchiveRunResultParams{
		RunID:  runID,
		Slug:   slug,
		Result: result,
	}).Get(ctx, nil)
	if err != nil {
		logger.Error("failed to archive provision run", "run_id", runID, "error", err)
	}
}
