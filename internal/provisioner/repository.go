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

// RepositoryClient provisions source repositories from the platform
// template through the git hosting vendor's API.
type RepositoryClient struct {
	baseURL      string
	token        string
	templateRepo string
	hc           *http.Client
}

func NewRepositoryClient(baseURL, token, templateRepo string) *RepositoryClient {
	return &RepositoryClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		templateRepo: templateRepo,
		hc:           &http.Client{Timeout: 60 * time.Second},
	}
}

// Repository is the handle returned for a created repository.
type Repository struct {
	Name     string `json:"name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
}

// Create generates a new repository from the platform template, seeded
// with the template's full file tree and an initial commit.
func (c *RepositoryClient) Create(ctx context.Context, name, description string) (*Repository, error) {
	var repo Repository
	err := doJSON(ctx, c.hc, http.MethodPost, c.baseURL+"/repos/generate", c.token, map[string]string{
		"template":    c.templateRepo,
		"name":        name,
		"description": description,
	}, &repo)
	if err != nil {
		return nil, fmt.Errorf("create repository %q: %w", name, err)
	}
	return &repo, nil
}

// Exists checks whether a repository with the name is present.
func (c *RepositoryClient) Exists(ctx context.Context, name string) (bool, error) {
	err := doJSON(ctx, c.hc, http.MethodGet, c.repoURL(name), c.token, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check repository %q: %w", name, err)
	}
	return true, nil
}

// CommitCount returns the number of commits on the default branch.
func (c *RepositoryClient) CommitCount(ctx context.Context, name string) (int, error) {
	var resp struct {
		CommitCount int `json:"commit_count"`
	}
	err := doJSON(ctx, c.hc, http.MethodGet, c.repoURL(name)+"/stats", c.token, nil, &resp)
	if err != nil {
		return 0, fmt.Errorf("commit count for %q: %w", name, err)
	}
	return resp.CommitCount, nil
}

// FileCount returns the number of tracked files on the default branch.
// A silently failed template push shows up here as a near-empty tree.
func (c *RepositoryClient) FileCount(ctx context.Context, name string) (int, error) {
	var resp struct {
		FileCount int `json:"file_count"`
	}
	err := doJSON(ctx, c.hc, http.MethodGet, c.repoURL(name)+"/stats", c.token, nil, &resp)
	if err != nil {
		return 0, fmt.Errorf("file count for %q: %w", name, err)
	}
	return resp.FileCount, nil
}

// HasFile checks whether a path exists on the default branch.
func (c *RepositoryClient) HasFile(ctx context.Context, name, path string) (bool, error) {
	err := doJSON(ctx, c.hc, http.MethodGet,
		c.repoURL(name)+"/contents/"+url.PathEscape(path), c.token, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check file %s in %q: %w", path, name, err)
	}
	return true, nil
}

// Delete removes a repository. ErrNotFound is passed through.
func (c *RepositoryClient) Delete(ctx context.Context, name string) error {
	err := doJSON(ctx, c.hc, http.MethodDelete, c.repoURL(name), c.token, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete repository %q: %w", name, err)
	}
	return err
}

func (c *RepositoryClient) repoURL(name string) string {
	return c.baseURL + "/repos/" + url.PathEscape(name)
}
