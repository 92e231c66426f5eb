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

// ErrRelationMissing is returned by QueryTable when the table does not
// exist yet. During schema verification this is a transient "not ready"
// signal, not a failure: migrations apply asynchronously on the provider
// side.
var ErrRelationMissing = errors.New("relation does not exist")

// DatabaseClient provisions serverless Postgres projects through the
// database vendor's management API.
type DatabaseClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewDatabaseClient(baseURL, apiKey string) *DatabaseClient {
	return &DatabaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

type databaseProject struct {
	Project struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"project"`
	ConnectionURIs []struct {
		ConnectionURI        string `json:"connection_uri"`
		ConnectionParameters struct {
			Host     string `json:"host"`
			Database string `json:"database"`
			Role     string `json:"role"`
			Password string `json:"password"`
		} `json:"connection_parameters"`
	} `json:"connection_uris"`
}

// DatabaseProject is the handle returned for a created database project.
type DatabaseProject struct {
	ID            string
	ConnectionURL string
	Host          string
	DBName        string
	Role          string
	Password      string
}

// CreateProject creates a new database project named after the tenant slug.
func (c *DatabaseClient) CreateProject(ctx context.Context, name string) (*DatabaseProject, error) {
	var resp databaseProject
	err := doJSON(ctx, c.hc, http.MethodPost, c.baseURL+"/projects",
		c.apiKey, map[string]any{"project": map[string]string{"name": name}}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create database project %q: %w", name, err)
	}
	if len(resp.ConnectionURIs) == 0 {
		return nil, fmt.Errorf("create database project %q: no connection URI in response", name)
	}

	uri := resp.ConnectionURIs[0]
	return &DatabaseProject{
		ID:            resp.Project.ID,
		ConnectionURL: uri.ConnectionURI,
		Host:          uri.ConnectionParameters.Host,
		DBName:        uri.ConnectionParameters.Database,
		Role:          uri.ConnectionParameters.Role,
		Password:      uri.ConnectionParameters.Password,
	}, nil
}

// FindProject looks up a project by exact name. Returns ErrNotFound when
// no project carries the name.
func (c *DatabaseClient) FindProject(ctx context.Context, name string) (string, error) {
	var resp struct {
		Projects []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"projects"`
	}
	err := doJSON(ctx, c.hc, http.MethodGet,
		c.baseURL+"/projects?search="+url.QueryEscape(name), c.apiKey, nil, &resp)
	if err != nil {
		return "", fmt.Errorf("find database project %q: %w", name, err)
	}
	for _, p := range resp.Projects {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", ErrNotFound
}

// Ping checks that the project's endpoint answers at all.
func (c *DatabaseClient) Ping(ctx context.Context, projectID string) error {
	var resp struct {
		Project struct {
			Status string `json:"status"`
		} `json:"project"`
	}
	err := doJSON(ctx, c.hc, http.MethodGet, c.baseURL+"/projects/"+projectID, c.apiKey, nil, &resp)
	if err != nil {
		return fmt.Errorf("ping database project %s: %w", projectID, err)
	}
	return nil
}

// ApplySchema triggers the platform schema migration bundle on the project.
// The call returns once the provider has accepted the migration; whether
// the tables actually appeared is checked separately via QueryTable.
func (c *DatabaseClient) ApplySchema(ctx context.Context, projectID string) error {
	err := doJSON(ctx, c.hc, http.MethodPost,
		c.baseURL+"/projects/"+projectID+"/migrations", c.apiKey, map[string]string{"bundle": "platform"}, nil)
	if err != nil {
		return fmt.Errorf("apply schema to project %s: %w", projectID, err)
	}
	return nil
}

// QueryTable issues a trivial query against one table through the SQL-over
// -HTTP endpoint. Returns nil when the table is queryable, ErrRelationMissing
// when it does not exist yet.
func (c *DatabaseClient) QueryTable(ctx context.Context, projectID, table string) error {
	err := doJSON(ctx, c.hc, http.MethodPost,
		c.baseURL+"/projects/"+projectID+"/query", c.apiKey,
		map[string]string{"statement": fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table)}, nil)
	if err == nil {
		return nil
	}

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusBadRequest &&
		strings.Contains(se.Body, "does not exist") {
		return ErrRelationMissing
	}
	return fmt.Errorf("query table %s on project %s: %w", table, projectID, err)
}

// DeleteProject removes a project. ErrNotFound is passed through so the
// caller can record not_found as a cleanup success.
func (c *DatabaseClient) DeleteProject(ctx context.Context, projectID string) error {
	err := doJSON(ctx, c.hc, http.MethodDelete, c.baseURL+"/projects/"+projectID, c.apiKey, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete database project %s: %w", projectID, err)
	}
	return err
}
