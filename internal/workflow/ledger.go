package workflow

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/edvin/launchpad/internal/model"
)

// ledger tracks the step records of one run. Every declared step is
// present from the start as pending and moves forward only:
// pending → running → (verifying) → success | warning | error | skipped.
type ledger struct {
	steps   []model.StepRecord
	index   map[string]int
	defs    map[string]model.StepDef
	started map[string]time.Time
}

func newLedger() *ledger {
	defs := model.DeclaredSteps()
	l := &ledger{
		steps:   make([]model.StepRecord, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
		defs:    make(map[string]model.StepDef, len(defs)),
		started: make(map[string]time.Time, len(defs)),
	}
	for i, d := range defs {
		l.steps = append(l.steps, model.StepRecord{ID: d.ID, Status: model.StepPending})
		l.index[d.ID] = i
		l.defs[d.ID] = d
	}
	return l
}

func (l *ledger) start(ctx workflow.Context, id string) {
	l.started[id] = workflow.Now(ctx)
	l.steps[l.index[id]].Status = model.StepRunning
}

func (l *ledger) verifying(id string) {
	l.steps[l.index[id]].Status = model.StepVerifying
}

func (l *ledger) succeed(ctx workflow.Context, id, message string) {
	l.terminal(ctx, id, model.StepSuccess, message, "")
}

func (l *ledger) warn(ctx workflow.Context, id, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	l.terminal(ctx, id, model.StepWarning, message, errMsg)
}

func (l *ledger) fail(ctx workflow.Context, id string, err error) {
	l.terminal(ctx, id, model.StepError, "", err.Error())
}

func (l *ledger) skip(ctx workflow.Context, id, message string) {
	l.terminal(ctx, id, model.StepSkipped, message, "")
}

// skipRemaining marks every still-pending step as skipped, so the ledger
// always returns a terminal status for each declared step.
func (l *ledger) skipRemaining(ctx workflow.Context, message string) {
	for i := range l.steps {
		if l.steps[i].Status == model.StepPending {
			l.steps[i].Status = model.StepSkipped
			l.steps[i].Message = message
		}
	}
}

// setVerification records a probe outcome on the step. Verified stays
// unset for steps whose probe never ran: a success without it means
// "accepted but not independently confirmed".
func (l *ledger) setVerification(id string, v *model.VerificationResult) {
	rec := &l.steps[l.index[id]]
	verified := v.Verified
	rec.Verified = &verified
	rec.VerificationDetail = v.Detail
}

func (l *ledger) terminal(ctx workflow.Context, id, status, message, errMsg string) {
	rec := &l.steps[l.index[id]]
	rec.Status = status
	rec.Message = message
	rec.Error = errMsg
	if startedAt, ok := l.started[id]; ok {
		rec.DurationMs = workflow.Now(ctx).Sub(startedAt).Milliseconds()
	}
}

// fullyVerified reports whether every step that defines a probe recorded
// a positive verification. Warnings on probe-less steps do not count
// against it; an unrun or failed probe does.
func (l *ledger) fullyVerified() bool {
	for _, rec := range l.steps {
		if !l.defs[rec.ID].HasProbe {
			continue
		}
		if rec.Verified == nil || !*rec.Verified {
			return false
		}
	}
	return true
}

func (l *ledger) records() []model.StepRecord {
	out := make([]model.StepRecord, len(l.steps))
	copy(out, l.steps)
	return out
}
