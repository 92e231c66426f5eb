package workflow

import (
	"go.temporal.io/sdk/testsuite"

	"github.com/edvin/launchpad/internal/activity"
	"github.com/edvin/launchpad/internal/model"
)

// registerActivities registers activity structs with the test workflow
// environment so parameter and return types can be deserialized by the
// Temporal test framework. All activities are mocked via OnActivity in
// the tests; the framework only needs the type information.
func registerActivities(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivity(&activity.Database{})
	env.RegisterActivity(&activity.Repository{})
	env.RegisterActivity(&activity.Hosting{})
	env.RegisterActivity(&activity.VoiceAgent{})
	env.RegisterActivity(&activity.Notify{})
	env.RegisterActivity(&activity.Cleanup{})
	env.RegisterActivity(&activity.RunRecord{})
	env.RegisterActivity(&activity.Archive{})
}

func verified(detail string) *model.VerificationResult {
	return &model.VerificationResult{Verified: true, Detail: detail, TerminalState: "ready"}
}

func unverified(detail, terminal string) *model.VerificationResult {
	return &model.VerificationResult{Verified: false, Detail: detail, TerminalState: terminal}
}

func cleanReport(slug string) *model.CleanupReport {
	return &model.CleanupReport{Slug: slug, Outcomes: []model.ResourceOutcome{
		{Kind: model.ResourceHosting, Outcome: model.DeleteOutcomeNotFound, Attempts: 1},
		{Kind: model.ResourceRepository, Outcome: model.DeleteOutcomeNotFound, Attempts: 1},
		{Kind: model.ResourceVoiceAgent, Outcome: model.DeleteOutcomeNotFound, Attempts: 1},
		{Kind: model.ResourceDatabase, Outcome: model.DeleteOutcomeNotFound, Attempts: 1},
	}}
}

func testDatabase() *model.DatabaseResource {
	return &model.DatabaseResource{
		ProjectID:     "db-proj-1",
		ConnectionURL: "postgres://app:pw@db.acme.test/platform",
		Host:          "db.acme.test",
		DBName:        "platform",
		Role:          "app",
		Password:      "pw",
	}
}

func testRepository() *model.RepositoryResource {
	return &model.RepositoryResource{
		Name:     "acme-ventures",
		URL:      "https://git.example.com/acme-ventures",
		CloneURL: "https://git.example.com/acme-ventures.git",
	}
}

func testHosting() *model.HostingResource {
	return &model.HostingResource{
		ProjectID: "host-proj-1",
		URL:       "https://acme-ventures.platform.test",
	}
}
