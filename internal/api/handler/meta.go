package handler

import (
	"net/http"

	"github.com/edvin/launchpad/internal/api/response"
	"github.com/edvin/launchpad/internal/model"
)

type Meta struct {
	version string
}

func NewMeta(version string) *Meta {
	return &Meta{version: version}
}

// Get describes the service and the fixed provisioning step sequence,
// so callers can render ledgers without hardcoding step IDs.
func (h *Meta) Get(w http.ResponseWriter, _ *http.Request) {
	steps := make([]map[string]any, 0, len(model.DeclaredSteps()))
	for _, def := range model.DeclaredSteps() {
		steps = append(steps, map[string]any{
			"id":       def.ID,
			"fatal":    def.Fatal,
			"verified": def.HasProbe,
		})
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"service": "launchpad",
		"version": h.version,
		"steps":   steps,
	})
}
