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

// markerFile must exist on the default branch before a repository counts
// as verified; it is committed last by the template generator, so its
// presence implies the push completed.
const markerFile = "launchpad.json"

// minRepoFiles guards against a create that succeeded while the template
// push silently failed, leaving a near-empty tree.
const minRepoFiles = 10

// Repository contains activities for the source repository provisioner.
type Repository struct {
	client       *provisioner.RepositoryClient
	pollInterval time.Duration
	verifyBudget time.Duration
}

func NewRepository(client *provisioner.RepositoryClient, pollInterval, verifyBudget time.Duration) *Repository {
	return &Repository{client: client, pollInterval: pollInterval, verifyBudget: verifyBudget}
}

// CreateRepositoryParams holds parameters for CreateRepository.
type CreateRepositoryParams struct {
	Slug        string `json:"slug"`
	CompanyName string `json:"company_name"`
}

// CreateRepository generates the tenant's repository from the platform template.
func (a *Repository) CreateRepository(ctx context.Context, params CreateRepositoryParams) (*model.RepositoryResource, error) {
	repo, err := a.client.Create(ctx, params.Slug, "Platform instance for "+params.CompanyName)
	if err != nil {
		if provisioner.IsClientError(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
		}
		return nil, err
	}
	return &model.RepositoryResource{
		Name:     repo.Name,
		URL:      repo.HTMLURL,
		CloneURL: repo.CloneURL,
	}, nil
}

// VerifyRepository polls until the default branch has at least one
// commit, the marker file is present and the tracked file count passes
// the threshold.
func (a *Repository) VerifyRepository(ctx context.Context, name string) (*model.VerificationResult, error) {
	res := readiness.Wait(ctx, func(ctx context.Context) (readiness.State, string) {
		commits, err := a.client.CommitCount(ctx, name)
		if err != nil {
			return repoProbeError(err)
		}
		if commits == 0 {
			return readiness.NotReady, "no commits on default branch yet"
		}

		hasMarker, err := a.client.HasFile(ctx, name, markerFile)
		if err != nil {
			return repoProbeError(err)
		}
		if !hasMarker {
			return readiness.NotReady, fmt.Sprintf("marker file %s not present yet", markerFile)
		}

		files, err := a.client.FileCount(ctx, name)
		if err != nil {
			return repoProbeError(err)
		}
		if files < minRepoFiles {
			return readiness.NotReady, fmt.Sprintf("only %d files tracked, expected at least %d", files, minRepoFiles)
		}

		return readiness.Ready, fmt.Sprintf("%d commits, %d files, marker present", commits, files)
	}, readiness.Options{Interval: a.pollInterval, Budget: a.verifyBudget})

	return verification(res), nil
}

// DeleteRepository removes a repository during rollback or cleanup.
func (a *Repository) DeleteRepository(ctx context.Context, name string) (string, error) {
	err := a.client.Delete(ctx, name)
	if errors.Is(err, provisioner.ErrNotFound) {
		return model.DeleteOutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return model.DeleteOutcomeDeleted, nil
}

func repoProbeError(err error) (readiness.State, string) {
	if errors.Is(err, provisioner.ErrNotFound) {
		// repo listed as created but not readable yet
		return readiness.NotReady, "repository not visible yet"
	}
	if provisioner.IsClientError(err) {
		return readiness.Failed, err.Error()
	}
	return readiness.NotReady, err.Error()
}
