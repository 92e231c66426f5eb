package activity

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/launchpad/internal/model"
	"github.com/edvin/launchpad/internal/provisioner"
)

// cleanupAttempts bounds deletion retries per resource kind during
// pre-flight cleanup.
const cleanupAttempts = 3

// Cleanup contains the pre-flight cleanup activity. It holds every
// provider client because a failed earlier run may have left a stale
// resource behind in any of them.
type Cleanup struct {
	database   *provisioner.DatabaseClient
	repository *provisioner.RepositoryClient
	hosting    *provisioner.HostingClient
	voice      *provisioner.VoiceAgentClient
	retryDelay time.Duration
}

func NewCleanup(
	database *provisioner.DatabaseClient,
	repository *provisioner.RepositoryClient,
	hosting *provisioner.HostingClient,
	voice *provisioner.VoiceAgentClient,
) *Cleanup {
	return &Cleanup{
		database:   database,
		repository: repository,
		hosting:    hosting,
		voice:      voice,
		retryDelay: 2 * time.Second,
	}
}

// PreflightCleanup finds and deletes stale resources named by slug from a
// prior failed run. The four resource kinds are cleaned concurrently and
// independently: a kind that fails to clean never blocks the others. The
// activity itself only errors on a broken invariant, never on a dirty
// provider; unresolved resources are reported in the outcome list and
// downgraded to a warning by the coordinator.
func (a *Cleanup) PreflightCleanup(ctx context.Context, slug string) (*model.CleanupReport, error) {
	outcomes := make([]model.ResourceOutcome, 4)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		outcomes[0] = a.cleanupKind(gctx, model.ResourceHosting, func(ctx context.Context) (string, error) {
			return a.hosting.FindProject(ctx, slug)
		}, a.hosting.DeleteProject)
		return nil
	})
	g.Go(func() error {
		outcomes[1] = a.cleanupKind(gctx, model.ResourceRepository, func(ctx context.Context) (string, error) {
			ok, err := a.repository.Exists(ctx, slug)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", provisioner.ErrNotFound
			}
			return slug, nil
		}, a.repository.Delete)
		return nil
	})
	g.Go(func() error {
		outcomes[2] = a.cleanupKind(gctx, model.ResourceVoiceAgent, func(ctx context.Context) (string, error) {
			return a.voice.FindAgent(ctx, slug)
		}, a.voice.DeleteAgent)
		return nil
	})
	g.Go(func() error {
		outcomes[3] = a.cleanupKind(gctx, model.ResourceDatabase, func(ctx context.Context) (string, error) {
			return a.database.FindProject(ctx, slug)
		}, a.database.DeleteProject)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.CleanupReport{Slug: slug, Outcomes: outcomes}, nil
}

// cleanupKind locates one resource kind by slug and deletes it with
// bounded retries. Not finding anything is a success.
func (a *Cleanup) cleanupKind(
	ctx context.Context,
	kind string,
	find func(ctx context.Context) (string, error),
	del func(ctx context.Context, id string) error,
) model.ResourceOutcome {
	id, err := find(ctx)
	if errors.Is(err, provisioner.ErrNotFound) {
		return model.ResourceOutcome{Kind: kind, Outcome: model.DeleteOutcomeNotFound, Attempts: 1}
	}
	if err != nil {
		return model.ResourceOutcome{Kind: kind, Outcome: model.DeleteOutcomeError, Attempts: 1, Detail: err.Error()}
	}

	var lastErr error
	for attempt := 1; attempt <= cleanupAttempts; attempt++ {
		err := del(ctx, id)
		if err == nil || errors.Is(err, provisioner.ErrNotFound) {
			return model.ResourceOutcome{Kind: kind, Outcome: model.DeleteOutcomeDeleted, Attempts: attempt}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return model.ResourceOutcome{Kind: kind, Outcome: model.DeleteOutcomeError, Attempts: attempt, Detail: ctx.Err().Error()}
		case <-time.After(a.retryDelay):
		}
	}
	return model.ResourceOutcome{Kind: kind, Outcome: model.DeleteOutcomeError, Attempts: cleanupAttempts, Detail: lastErr.Error()}
}
