package model

// ResourceOutcome records the result of deleting one resource kind,
// either during pre-flight cleanup or rollback.
type ResourceOutcome struct {
	Kind     string `json:"kind"`
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts"`
	Detail   string `json:"detail,omitempty"`
}

// CleanupReport is the result of pre-flight cleanup for one slug. A kind
// reporting not_found is a success (nothing to clean).
type CleanupReport struct {
	Slug     string            `json:"slug"`
	Outcomes []ResourceOutcome `json:"outcomes"`
}

// Clean reports whether every resource kind was either absent or deleted.
func (c CleanupReport) Clean() bool {
	for _, o := range c.Outcomes {
		if o.Outcome == DeleteOutcomeError {
			return false
		}
	}
	return true
}

// Deleted counts the resource kinds whose stale instances were removed.
func (c CleanupReport) Deleted() int {
	n := 0
	for _, o := range c.Outcomes {
		if o.Outcome == DeleteOutcomeDeleted {
			n++
		}
	}
	return n
}

// RollbackReport records the best-effort compensation pass over the
// resource registry after a fatal failure.
type RollbackReport struct {
	Performed bool              `json:"performed"`
	Outcomes  []ResourceOutcome `json:"outcomes,omitempty"`
}
