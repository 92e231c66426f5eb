package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow-side ceilings for verification activities. The actual polling
// budget lives in the activity configuration; these only have to be
// comfortably above it.
const (
	endpointVerifyTimeout = 3 * time.Minute
	schemaVerifyTimeout   = 5 * time.Minute
	repoVerifyTimeout     = 3 * time.Minute
	voiceVerifyTimeout    = 2 * time.Minute
	deployVerifyTimeout   = 15 * time.Minute
)

// defaultActivityOptions covers create, delete and notify calls.
func defaultActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
}

// verifyCtx routes a verification activity with a single attempt: the
// readiness loop inside the activity already retries, and a Temporal-level
// retry would restart the whole budget.
func verifyCtx(ctx workflow.Context, timeout time.Duration) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
}

// cleanupCtx gives pre-flight cleanup room for its internal per-kind
// retries, without Temporal-level retries on top.
func cleanupCtx(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 3 * time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
}

// recordCtx is used for the best-effort run record and archive writes.
func recordCtx(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
		},
	})
}
