package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/launchpad/internal/provisioner"
)

func newAgentAPI(t *testing.T, statuses ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(polls.Add(1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		json.NewEncoder(w).Encode(provisioner.VoiceAgent{ID: "agent-1", Name: "acme", Status: statuses[i]})
	}))
	t.Cleanup(srv.Close)
	return srv, &polls
}

func TestVerifyVoiceAgent_PendingThenPublished(t *testing.T) {
	api, _ := newAgentAPI(t, "pending", provisioner.AgentStatusPublished)

	a := NewVoiceAgent(provisioner.NewVoiceAgentClient(api.URL, "key"), testPollInterval, time.Second)
	res, err := a.VerifyVoiceAgent(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "agent published", res.Detail)
}

func TestVerifyVoiceAgent_DraftIsTerminal(t *testing.T) {
	// a draft agent will not publish itself, so polling stops at once
	api, polls := newAgentAPI(t, provisioner.AgentStatusDraft)

	a := NewVoiceAgent(provisioner.NewVoiceAgentClient(api.URL, "key"), testPollInterval, time.Second)
	res, err := a.VerifyVoiceAgent(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "failed", res.TerminalState)
	assert.Contains(t, res.Detail, "draft")
	assert.Equal(t, int32(1), polls.Load())
}

func TestVerifyVoiceAgent_NotVisibleYetTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewVoiceAgent(provisioner.NewVoiceAgentClient(srv.URL, "key"), testPollInterval, testBudget)
	res, err := a.VerifyVoiceAgent(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "timeout", res.TerminalState)
	assert.Contains(t, res.Detail, "not visible yet")
}
