package activity

import (
	"context"

	"github.com/edvin/launchpad/internal/db"
	"github.com/edvin/launchpad/internal/model"
)

// RunRecord contains the run-history persistence activity.
type RunRecord struct {
	store *db.RunStore
}

func NewRunRecord(store *db.RunStore) *RunRecord {
	return &RunRecord{store: store}
}

// RecordProvisionRun writes the completed run to the history table. The
// workflow calls it best-effort at the end of every run, successful or not.
func (a *RunRecord) RecordProvisionRun(ctx context.Context, run model.ProvisionRun) error {
	return a.store.Insert(ctx, run)
}
