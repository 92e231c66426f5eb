// Package readiness turns "request accepted" into "confirmed usable".
// Every adapter verification is a Probe driven by Wait, so all polling,
// backoff and time budgeting lives in one place.
package readiness

import (
	"context"
	"fmt"
	"time"
)

// State is a probe observation. NotReady is transient and will be polled
// again; Ready, Failed and Canceled are terminal and stop polling
// immediately.
type State string

const (
	NotReady State = "not_ready"
	Ready    State = "ready"
	Failed   State = "failed"
	Canceled State = "canceled"
)

// Terminal reports whether the state will not change with further waiting.
func (s State) Terminal() bool {
	return s == Ready || s == Failed || s == Canceled
}

// Probe inspects a resource once and classifies what it sees. An empty or
// missing result must be reported as NotReady, never as Ready: absence of
// an error alone is not evidence of readiness.
type Probe func(ctx context.Context) (State, string)

// Options bounds a Wait call.
type Options struct {
	// Interval is the fixed sleep between probe attempts.
	Interval time.Duration
	// Budget is the total time allowed before giving up.
	Budget time.Duration
}

// Result is the outcome of a Wait call.
type Result struct {
	Verified bool
	Detail   string
	// TerminalState is the probe state that ended polling, or "timeout"
	// when the budget elapsed without a terminal observation.
	TerminalState string
}

// Wait polls probe until it reports a terminal state or the budget
// elapses. The probe runs immediately on entry, then every Interval.
// Failed and Canceled stop polling at once; there is no point waiting out
// the budget after a definitive negative.
func Wait(ctx context.Context, probe Probe, opts Options) Result {
	deadline := time.Now().Add(opts.Budget)

	for {
		state, detail := probe(ctx)
		switch state {
		case Ready:
			return Result{Verified: true, Detail: detail, TerminalState: string(Ready)}
		case Failed, Canceled:
			return Result{Verified: false, Detail: detail, TerminalState: string(state)}
		}

		if !time.Now().Add(opts.Interval).Before(deadline) {
			return Result{
				Verified:      false,
				Detail:        fmt.Sprintf("timed out after %s; last: %s", opts.Budget, lastDetail(detail)),
				TerminalState: "timeout",
			}
		}

		select {
		case <-ctx.Done():
			return Result{
				Verified:      false,
				Detail:        "context canceled: " + ctx.Err().Error(),
				TerminalState: string(Canceled),
			}
		case <-time.After(opts.Interval):
		}
	}
}

func lastDetail(detail string) string {
	if detail == "" {
		return "not ready"
	}
	return detail
}
