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

// Hosting contains activities for the hosting/deployment provisioner.
type Hosting struct {
	client       *provisioner.HostingClient
	pollInterval time.Duration
	deployBudget time.Duration
}

func NewHosting(client *provisioner.HostingClient, pollInterval, deployBudget time.Duration) *Hosting {
	return &Hosting{client: client, pollInterval: pollInterval, deployBudget: deployBudget}
}

// CreateHostingProjectParams holds parameters for CreateHostingProject.
type CreateHostingProjectParams struct {
	Slug     string            `json:"slug"`
	RepoName string            `json:"repo_name"`
	Env      map[string]string `json:"env"`
}

// CreateHostingProject creates the hosting project linked to the tenant's
// repository, carrying the database credentials as environment variables.
func (a *Hosting) CreateHostingProject(ctx context.Context, params CreateHostingProjectParams) (*model.HostingResource, error) {
	project, err := a.client.CreateProject(ctx, params.Slug, params.RepoName, params.Env)
	if err != nil {
		if provisioner.IsClientError(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
		}
		return nil, err
	}
	return &model.HostingResource{ProjectID: project.ID, URL: project.URL}, nil
}

// ConfigureAuthParams holds parameters for ConfigureAuth.
type ConfigureAuthParams struct {
	ProjectID  string `json:"project_id"`
	SiteURL    string `json:"site_url"`
	AdminEmail string `json:"admin_email"`
}

// ConfigureAuth wires the project's auth provider to the published URL.
func (a *Hosting) ConfigureAuth(ctx context.Context, params ConfigureAuthParams) error {
	err := a.client.ConfigureAuth(ctx, params.ProjectID, params.SiteURL, params.AdminEmail)
	if err != nil && provisioner.IsClientError(err) {
		return temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
	}
	return err
}

// TriggerDeploy starts a build-and-deploy of the project and returns the
// deployment ID. Completion is checked separately by VerifyDeployment.
func (a *Hosting) TriggerDeploy(ctx context.Context, projectID string) (string, error) {
	id, err := a.client.CreateDeployment(ctx, projectID)
	if err != nil {
		if provisioner.IsClientError(err) {
			return "", temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
		}
		return "", err
	}
	return id, nil
}

// VerifyDeploymentParams holds parameters for VerifyDeployment.
type VerifyDeploymentParams struct {
	ProjectID string `json:"project_id"`
	SiteURL   string `json:"site_url"`
}

// VerifyDeployment polls the latest deployment until it terminates.
// READY alone is not enough: the published URL must also answer a live
// HTTP request before the deployment counts as verified. Build failures
// and cancellations are terminal negatives and stop polling immediately.
func (a *Hosting) VerifyDeployment(ctx context.Context, params VerifyDeploymentParams) (*model.VerificationResult, error) {
	res := readiness.Wait(ctx, func(ctx context.Context) (readiness.State, string) {
		dep, err := a.client.LatestDeployment(ctx, params.ProjectID)
		if err != nil {
			if provisioner.IsClientError(err) {
				return readiness.Failed, err.Error()
			}
			return readiness.NotReady, err.Error()
		}

		switch dep.State {
		case provisioner.DeployStateError:
			return readiness.Failed, "deployment " + dep.ID + " failed to build"
		case provisioner.DeployStateCanceled:
			return readiness.Canceled, "deployment " + dep.ID + " was canceled"
		case provisioner.DeployStateReady:
			reachable, status, err := a.client.Reachable(ctx, params.SiteURL)
			if err != nil {
				return readiness.NotReady, err.Error()
			}
			if !reachable {
				return readiness.NotReady, fmt.Sprintf("deployment READY but %s not reachable (status %d)", params.SiteURL, status)
			}
			return readiness.Ready, fmt.Sprintf("deployment READY, %s answering with %d", params.SiteURL, status)
		default:
			return readiness.NotReady, "deployment state " + dep.State
		}
	}, readiness.Options{Interval: a.pollInterval, Budget: a.deployBudget})

	return verification(res), nil
}

// DeleteHostingProject removes a project during rollback or cleanup.
func (a *Hosting) DeleteHostingProject(ctx context.Context, projectID string) (string, error) {
	err := a.client.DeleteProject(ctx, projectID)
	if errors.Is(err, provisioner.ErrNotFound) {
		return model.DeleteOutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return model.DeleteOutcomeDeleted, nil
}
