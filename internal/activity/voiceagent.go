package activity

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/edvin/launchpad/internal/model"
	"github.com/edvin/launchpad/internal/provisioner"
	"github.com/edvin/launchpad/internal/readiness"
)

// VoiceAgent contains activities for the voice agent provisioner. The
// whole step is non-fatal: a tenant without a voice agent is degraded,
// not broken.
type VoiceAgent struct {
	client       *provisioner.VoiceAgentClient
	pollInterval time.Duration
	verifyBudget time.Duration
}

func NewVoiceAgent(client *provisioner.VoiceAgentClient, pollInterval, verifyBudget time.Duration) *VoiceAgent {
	return &VoiceAgent{client: client, pollInterval: pollInterval, verifyBudget: verifyBudget}
}

// CreateVoiceAgentParams holds parameters for CreateVoiceAgent.
type CreateVoiceAgentParams struct {
	Slug        string         `json:"slug"`
	CompanyName string         `json:"company_name"`
	Branding    map[string]any `json:"branding,omitempty"`
}

// CreateVoiceAgent creates the tenant's voice agent, named by slug.
func (a *VoiceAgent) CreateVoiceAgent(ctx context.Context, params CreateVoiceAgentParams) (*model.VoiceAgentResource, error) {
	voiceParams := map[string]any{
		"display_name": params.CompanyName,
	}
	if params.Branding != nil {
		voiceParams["branding"] = params.Branding
	}

	agentID, err := a.client.CreateAgent(ctx, params.Slug, voiceParams)
	if err != nil {
		if provisioner.IsClientError(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
		}
		return nil, err
	}
	return &model.VoiceAgentResource{AgentID: agentID}, nil
}

// VerifyVoiceAgent checks that the agent reached published status. A
// draft agent is a terminal negative: it will not publish itself, so
// there is no point polling the budget out.
func (a *VoiceAgent) VerifyVoiceAgent(ctx context.Context, agentID string) (*model.VerificationResult, error) {
	res := readiness.Wait(ctx, func(ctx context.Context) (readiness.State, string) {
		agent, err := a.client.GetAgent(ctx, agentID)
		if errors.Is(err, provisioner.ErrNotFound) {
			return readiness.NotReady, "agent not visible yet"
		}
		if err != nil {
			if provisioner.IsClientError(err) {
				return readiness.Failed, err.Error()
			}
			return readiness.NotReady, err.Error()
		}

		switch agent.Status {
		case provisioner.AgentStatusPublished:
			return readiness.Ready, "agent published"
		case provisioner.AgentStatusDraft:
			return readiness.Failed, "agent stuck in draft status"
		default:
			return readiness.NotReady, "agent status " + agent.Status
		}
	}, readiness.Options{Interval: a.pollInterval, Budget: a.verifyBudget})

	return verification(res), nil
}

// DeleteVoiceAgent removes an agent during rollback or cleanup.
func (a *VoiceAgent) DeleteVoiceAgent(ctx context.Context, agentID string) (string, error) {
	err := a.client.DeleteAgent(ctx, agentID)
	if errors.Is(err, provisioner.ErrNotFound) {
		return model.DeleteOutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return model.DeleteOutcomeDeleted, nil
}
