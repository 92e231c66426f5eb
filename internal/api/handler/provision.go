package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/launchpad/internal/api/request"
	"github.com/edvin/launchpad/internal/api/response"
	"github.com/edvin/launchpad/internal/db"
	"github.com/edvin/launchpad/internal/model"
	"github.com/edvin/launchpad/internal/platform"
)

var (
	provisionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchpad_provision_runs_total",
			Help: "Total number of provisioning runs by outcome",
		},
		[]string{"outcome"},
	)

	provisionRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "launchpad_provision_run_duration_seconds",
			Help:    "End to end provisioning run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)
)

type Provision struct {
	tc    temporalclient.Client
	store *db.RunStore
}

func NewProvision(tc temporalclient.Client, store *db.RunStore) *Provision {
	return &Provision{tc: tc, store: store}
}

// Create starts a provisioning run and blocks until it completes. The
// response is always the full orchestration result with its step ledger;
// a failed run is still a 200 with success=false.
func (h *Provision) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProvision
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = platform.Slugify(req.CompanyName)
	}
	if slug == "" {
		response.WriteError(w, http.StatusBadRequest, "company name produces an empty slug; supply an explicit slug")
		return
	}

	// The slug doubles as the idempotency key: one workflow ID per slug,
	// so a second request for the same company while a run is open gets
	// rejected instead of racing it.
	workflowID := "provision-" + slug
	opts := temporalclient.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: model.TaskQueue,
	}

	start := time.Now()
	run, err := h.tc.ExecuteWorkflow(r.Context(), opts, "ProvisionTenantWorkflow", req.ToModel())
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			response.WriteError(w, http.StatusConflict, "a provisioning run for "+slug+" is already in progress")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, "failed to start provisioning: "+err.Error())
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("workflow_id", workflowID).
		Str("slug", slug).
		Msg("provisioning run started")

	var result model.OrchestrationResult
	if err := run.Get(r.Context(), &result); err != nil {
		provisionRunsTotal.WithLabelValues("workflow_error").Inc()
		response.WriteError(w, http.StatusInternalServerError, "provisioning run failed: "+err.Error())
		return
	}

	provisionRunDuration.Observe(time.Since(start).Seconds())
	provisionRunsTotal.WithLabelValues(outcomeLabel(&result)).Inc()

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"workflow_id": workflowID,
		"run_id":      run.GetRunID(),
		"result":      result,
	})
}

func outcomeLabel(result *model.OrchestrationResult) string {
	switch {
	case result.Success && result.FullyVerified:
		return "success"
	case result.Success:
		return "success_unverified"
	default:
		return "failed"
	}
}

// List returns recent provisioning runs, newest first.
func (h *Provision) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.store.List(r.Context(), limit)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteList(w, http.StatusOK, runs, len(runs))
}

// Get returns one provisioning run by its workflow run ID.
func (h *Provision) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			response.WriteError(w, http.StatusNotFound, "run not found")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, run)
}
