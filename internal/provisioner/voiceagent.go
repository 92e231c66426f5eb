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

// Voice agent publication states.
const (
	AgentStatusPublished = "published"
	AgentStatusDraft     = "draft"
)

// VoiceAgentClient provisions AI voice agents through the voice vendor's API.
type VoiceAgentClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewVoiceAgentClient(baseURL, apiKey string) *VoiceAgentClient {
	return &VoiceAgentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// VoiceAgent is the handle of a voice agent.
type VoiceAgent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// CreateAgent creates and publishes a voice agent for the tenant. The
// voice parameters are an opaque vendor payload assembled from branding.
func (c *VoiceAgentClient) CreateAgent(ctx context.Context, name string, params map[string]any) (string, error) {
	body := map[string]any{"name": name}
	for k, v := range params {
		body[k] = v
	}
	var agent VoiceAgent
	err := doJSON(ctx, c.hc, http.MethodPost, c.baseURL+"/agents", c.apiKey, body, &agent)
	if err != nil {
		return "", fmt.Errorf("create voice agent %q: %w", name, err)
	}
	return agent.ID, nil
}

// GetAgent fetches an agent by ID.
func (c *VoiceAgentClient) GetAgent(ctx context.Context, agentID string) (*VoiceAgent, error) {
	var agent VoiceAgent
	err := doJSON(ctx, c.hc, http.MethodGet, c.baseURL+"/agents/"+agentID, c.apiKey, nil, &agent)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get voice agent %s: %w", agentID, err)
	}
	return &agent, nil
}

// FindAgent looks up an agent by name. Returns ErrNotFound when absent.
func (c *VoiceAgentClient) FindAgent(ctx context.Context, name string) (string, error) {
	var resp struct {
		Agents []VoiceAgent `json:"agents"`
	}
	err := doJSON(ctx, c.hc, http.MethodGet,
		c.baseURL+"/agents?name="+url.QueryEscape(name), c.apiKey, nil, &resp)
	if err != nil {
		return "", fmt.Errorf("find voice agent %q: %w", name, err)
	}
	for _, a := range resp.Agents {
		if a.Name == name {
			return a.ID, nil
		}
	}
	return "", ErrNotFound
}

// DeleteAgent removes an agent. ErrNotFound is passed through.
func (c *VoiceAgentClient) DeleteAgent(ctx context.Context, agentID string) error {
	err := doJSON(ctx, c.hc, http.MethodDelete, c.baseURL+"/agents/"+agentID, c.apiKey, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete voice agent %s: %w", agentID, err)
	}
	return err
}
