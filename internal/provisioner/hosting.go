package provisioner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Deployment states reported by the hosting provider.
const (
	DeployStateQueued   = "QUEUED"
	DeployStateBuilding = "BUILDING"
	DeployStateReady    = "READY"
	DeployStateError    = "ERROR"
	DeployStateCanceled = "CANCELED"
)

// HostingClient provisions hosting projects linked to a source repository
// through the hosting vendor's API.
type HostingClient struct {
	baseURL string
	token   string
	hc      *http.Client
	// probe client kept short so reachability checks fail fast during polling
	probeHC *http.Client
}

func NewHostingClient(baseURL, token string) *HostingClient {
	return &HostingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: 30 * time.Second},
		probeHC: &http.Client{Timeout: 10 * time.Second},
	}
}

// HostingProject is the handle returned for a created hosting project.
type HostingProject struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Deployment is one build-and-deploy of a hosting project.
type Deployment struct {
	ID    string `json:"id"`
	State string `json:"state"`
	URL   string `json:"url"`
}

// CreateProject creates a hosting project linked to repo, with the given
// environment variables (database credentials among them).
func (c *HostingClient) CreateProject(ctx context.Context, name, repo string, env map[string]string) (*HostingProject, error) {
	var project HostingProject
	err := doJSON(ctx, c.hc, http.MethodPost, c.baseURL+"/projects", c.token, map[string]any{
		"name":                  name,
		"git_repository":        repo,
		"environment_variables": env,
	}, &project)
	if err != nil {
		return nil, fmt.Errorf("create hosting project %q: %w", name, err)
	}
	return &project, nil
}

// FindProject looks up a project by name. Returns ErrNotFound when absent.
func (c *HostingClient) FindProject(ctx context.Context, name string) (string, error) {
	var project HostingProject
	err := doJSON(ctx, c.hc, http.MethodGet,
		c.baseURL+"/projects/name/"+url.PathEscape(name), c.token, nil, &project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("find hosting project %q: %w", name, err)
	}
	return project.ID, nil
}

// ConfigureAuth points the project's auth provider at the published URL
// (redirect URIs, allowed origins) and registers the admin identity.
func (c *HostingClient) ConfigureAuth(ctx context.Context, projectID, siteURL, adminEmail string) error {
	err := doJSON(ctx, c.hc, http.MethodPatch,
		c.baseURL+"/projects/"+projectID+"/auth", c.token, map[string]string{
			"site_url":    siteURL,
			"admin_email": adminEmail,
		}, nil)
	if err != nil {
		return fmt.Errorf("configure auth for project %s: %w", projectID, err)
	}
	return nil
}

// CreateDeployment triggers a build-and-deploy of the project's linked
// repository and returns the deployment ID.
func (c *HostingClient) CreateDeployment(ctx context.Context, projectID string) (string, error) {
	var dep Deployment
	err := doJSON(ctx, c.hc, http.MethodPost,
		c.baseURL+"/projects/"+projectID+"/deployments", c.token, nil, &dep)
	if err != nil {
		return "", fmt.Errorf("trigger deployment for project %s: %w", projectID, err)
	}
	return dep.ID, nil
}

// LatestDeployment returns the most recent deployment of the project.
func (c *HostingClient) LatestDeployment(ctx context.Context, projectID string) (*Deployment, error) {
	var dep Deployment
	err := doJSON(ctx, c.hc, http.MethodGet,
		c.baseURL+"/projects/"+projectID+"/deployments/latest", c.token, nil, &dep)
	if err != nil {
		return nil, fmt.Errorf("latest deployment for project %s: %w", projectID, err)
	}
	return &dep, nil
}

// Reachable issues a live GET against the published URL. A READY
// deployment state alone is not proof the site answers.
func (c *HostingClient) Reachable(ctx context.Context, siteURL string) (bool, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return false, 0, fmt.Errorf("create reachability request: %w", err)
	}
	resp, err := c.probeHC.Do(req)
	if err != nil {
		return false, 0, nil // unreachable, not an API failure
	}
	resp.Body.Close()
	return resp.StatusCode < 500, resp.StatusCode, nil
}

// DeleteProject removes a project. ErrNotFound is passed through.
func (c *HostingClient) DeleteProject(ctx context.Context, projectID string) error {
	err := doJSON(ctx, c.hc, http.MethodDelete, c.baseURL+"/projects/"+projectID, c.token, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete hosting project %s: %w", projectID, err)
	}
	return err
}
