package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/launchpad/internal/provisioner"
)

// newDeploymentAPI serves the latest-deployment endpoint, walking through
// the given states one probe at a time and repeating the last one.
func newDeploymentAPI(t *testing.T, states ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/deployments/latest") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		i := int(polls.Add(1)) - 1
		if i >= len(states) {
			i = len(states) - 1
		}
		json.NewEncoder(w).Encode(provisioner.Deployment{ID: "deploy-1", State: states[i]})
	}))
	t.Cleanup(srv.Close)
	return srv, &polls
}

func newSite(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyDeployment_BuildingThenReadyAndReachable(t *testing.T) {
	api, _ := newDeploymentAPI(t, provisioner.DeployStateQueued, provisioner.DeployStateBuilding, provisioner.DeployStateReady)
	site := newSite(t, http.StatusOK)

	a := NewHosting(provisioner.NewHostingClient(api.URL, "token"), testPollInterval, time.Second)
	res, err := a.VerifyDeployment(context.Background(), VerifyDeploymentParams{ProjectID: "host-1", SiteURL: site.URL})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "ready", res.TerminalState)
	assert.Contains(t, res.Detail, "answering with 200")
}

func TestVerifyDeployment_ReadyButSiteDownTimesOut(t *testing.T) {
	// READY from the deployment API is not enough on its own
	api, _ := newDeploymentAPI(t, provisioner.DeployStateReady)
	site := newSite(t, http.StatusBadGateway)

	a := NewHosting(provisioner.NewHostingClient(api.URL, "token"), testPollInterval, testBudget)
	res, err := a.VerifyDeployment(context.Background(), VerifyDeploymentParams{ProjectID: "host-1", SiteURL: site.URL})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "timeout", res.TerminalState)
	assert.Contains(t, res.Detail, "not reachable")
}

func TestVerifyDeployment_BuildErrorStopsImmediately(t *testing.T) {
	api, polls := newDeploymentAPI(t, provisioner.DeployStateError)

	a := NewHosting(provisioner.NewHostingClient(api.URL, "token"), testPollInterval, time.Second)
	res, err := a.VerifyDeployment(context.Background(), VerifyDeploymentParams{ProjectID: "host-1", SiteURL: "http://unused.test"})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "failed", res.TerminalState)
	assert.Contains(t, res.Detail, "failed to build")
	assert.Equal(t, int32(1), polls.Load(), "a failed build never gets re-polled")
}

func TestVerifyDeployment_Canceled(t *testing.T) {
	api, _ := newDeploymentAPI(t, provisioner.DeployStateCanceled)

	a := NewHosting(provisioner.NewHostingClient(api.URL, "token"), testPollInterval, time.Second)
	res, err := a.VerifyDeployment(context.Background(), VerifyDeploymentParams{ProjectID: "host-1", SiteURL: "http://unused.test"})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "canceled", res.TerminalState)
}
