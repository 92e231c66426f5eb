package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/edvin/launchpad/internal/model"
	"github.com/edvin/launchpad/internal/provisioner"
	"github.com/edvin/launchpad/internal/readiness"
)

// expectedTables is the fixed set of relations the platform schema must
// provide. Schema verification confirms each one is queryable.
var expectedTables = []string{"tenants", "users", "profiles", "sessions"}

// Database contains activities for the database project provisioner.
type Database struct {
	client       *provisioner.DatabaseClient
	pollInterval time.Duration
	verifyBudget time.Duration
}

// NewDatabase creates the database activity struct. pollInterval and
// verifyBudget bound every readiness probe loop.
func NewDatabase(client *provisioner.DatabaseClient, pollInterval, verifyBudget time.Duration) *Database {
	return &Database{client: client, pollInterval: pollInterval, verifyBudget: verifyBudget}
}

// CreateDatabaseProjectParams holds parameters for CreateDatabaseProject.
type CreateDatabaseProjectParams struct {
	Slug string `json:"slug"`
}

// CreateDatabaseProject creates the tenant's database project, named by
// slug so a retry of the same request targets the same external object.
func (a *Database) CreateDatabaseProject(ctx context.Context, params CreateDatabaseProjectParams) (*model.DatabaseResource, error) {
	project, err := a.client.CreateProject(ctx, params.Slug)
	if err != nil {
		if provisioner.IsClientError(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
		}
		return nil, err
	}

	return &model.DatabaseResource{
		ProjectID:     project.ID,
		ConnectionURL: project.ConnectionURL,
		Host:          project.Host,
		DBName:        project.DBName,
		Role:          project.Role,
		Password:      project.Password,
	}, nil
}

// VerifyDatabaseEndpoint polls until the project's endpoint answers.
func (a *Database) VerifyDatabaseEndpoint(ctx context.Context, projectID string) (*model.VerificationResult, error) {
	res := readiness.Wait(ctx, func(ctx context.Context) (readiness.State, string) {
		if err := a.client.Ping(ctx, projectID); err != nil {
			if provisioner.IsClientError(err) {
				return readiness.Failed, err.Error()
			}
			return readiness.NotReady, err.Error()
		}
		return readiness.Ready, "endpoint answering"
	}, readiness.Options{Interval: a.pollInterval, Budget: a.verifyBudget})

	return verification(res), nil
}

// RunSchemaMigration applies the platform schema bundle to the project.
func (a *Database) RunSchemaMigration(ctx context.Context, projectID string) error {
	if err := a.client.ApplySchema(ctx, projectID); err != nil {
		if provisioner.IsClientError(err) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
		}
		return err
	}
	return nil
}

// VerifySchema polls until every expected table is queryable. A missing
// relation is not-yet-ready, not a failure: migrations apply
// asynchronously and the tables appear one by one.
func (a *Database) VerifySchema(ctx context.Context, projectID string) (*model.VerificationResult, error) {
	res := readiness.Wait(ctx, func(ctx context.Context) (readiness.State, string) {
		for _, table := range expectedTables {
			err := a.client.QueryTable(ctx, projectID, table)
			if err == nil {
				continue
			}
			if errors.Is(err, provisioner.ErrRelationMissing) {
				return readiness.NotReady, fmt.Sprintf("relation %q does not exist yet", table)
			}
			if provisioner.IsClientError(err) {
				return readiness.Failed, err.Error()
			}
			return readiness.NotReady, err.Error()
		}
		return readiness.Ready, fmt.Sprintf("all %d expected tables queryable", len(expectedTables))
	}, readiness.Options{Interval: a.pollInterval, Budget: a.verifyBudget})

	return verification(res), nil
}

// DeleteDatabaseProject removes a project during rollback or cleanup.
// Returns the deletion outcome; a missing project is not_found, not an error.
func (a *Database) DeleteDatabaseProject(ctx context.Context, projectID string) (string, error) {
	err := a.client.DeleteProject(ctx, projectID)
	if errors.Is(err, provisioner.ErrNotFound) {
		return model.DeleteOutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return model.DeleteOutcomeDeleted, nil
}

// verification maps a readiness result into the ledger's verification shape.
func verification(res readiness.Result) *model.VerificationResult {
	return &model.VerificationResult{
		Verified:      res.Verified,
		Detail:        res.Detail,
		TerminalState: res.TerminalState,
	}
}
