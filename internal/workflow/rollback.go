package workflow

import (
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/launchpad/internal/model"
)

// performRollback deletes every resource whose creation step reached
// success, in reverse creation order. Each deletion is attempted
// independently; one failure never stops the others, and the caller's
// original fatal error is left untouched.
func performRollback(ctx workflow.Context, reg model.ResourceRegistry) *model.RollbackReport {
	logger := workflow.GetLogger(ctx)
	report := &model.RollbackReport{Performed: true}

	if reg.Hosting != nil {
		report.Outcomes = append(report.Outcomes,
			deleteResource(ctx, model.ResourceHosting, "DeleteHostingProject", reg.Hosting.ProjectID))
	}
	if reg.Repository != nil {
		report.Outcomes = append(report.Outcomes,
			deleteResource(ctx, model.ResourceRepository, "DeleteRepository", reg.Repository.Name))
	}
	if reg.VoiceAgent != nil {
		report.Outcomes = append(report.Outcomes,
			deleteResource(ctx, model.ResourceVoiceAgent, "DeleteVoiceAgent", reg.VoiceAgent.AgentID))
	}
	if reg.Database != nil {
		report.Outcomes = append(report.Outcomes,
			deleteResource(ctx, model.ResourceDatabase, "DeleteDatabaseProject", reg.Database.ProjectID))
	}

	for _, o := range report.Outcomes {
		if o.Outcome == model.DeleteOutcomeError {
			logger.Error("rollback deletion failed", "kind", o.Kind, "detail", o.Detail)
		}
	}
	return report
}

func deleteResource(ctx workflow.Context, kind, activityName, id string) model.ResourceOutcome {
	var outcome string
	err := workflow.ExecuteActivity(ctx, activityName, id).Get(ctx, &outcome)
	if err != nil {
		return model.ResourceOutcome{Kind: kind, Outcome: model.DeleteOutcomeError, Attempts: 1, Detail: err.Error()}
	}
	return model.ResourceOutcome{Kind: kind, Outcome: outcome, Attempts: 1}
}
