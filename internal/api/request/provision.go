package request

import (
	"github.com/edvin/launchpad/internal/model"
)

// CreateProvision is the request body for starting a provisioning run.
// RollbackOnFailure defaults to true when omitted. Slug is optional and
// overrides the slug derived from CompanyName, for names that do not
// slugify cleanly (non-Latin scripts, all-punctuation).
type CreateProvision struct {
	CompanyName          string         `json:"company_name" validate:"required,min=2,max=80"`
	Slug                 string         `json:"slug" validate:"omitempty,slug"`
	AdminEmail           string         `json:"admin_email" validate:"required,email"`
	AdminName            string         `json:"admin_name" validate:"required,max=120"`
	Phone                string         `json:"phone" validate:"omitempty,e164"`
	Branding             map[string]any `json:"branding"`
	SkipPreflightCleanup bool           `json:"skip_preflight_cleanup"`
	RollbackOnFailure    *bool          `json:"rollback_on_failure"`
	PlatformMode         string         `json:"platform_mode" validate:"omitempty,oneof=standard demo"`
}

func (r CreateProvision) ToModel() model.ProvisioningRequest {
	rollback := true
	if r.RollbackOnFailure != nil {
		rollback = *r.RollbackOnFailure
	}
	return model.ProvisioningRequest{
		CompanyName:          r.CompanyName,
		Slug:                 r.Slug,
		AdminEmail:           r.AdminEmail,
		AdminName:            r.AdminName,
		Phone:                r.Phone,
		Branding:             r.Branding,
		SkipPreflightCleanup: r.SkipPreflightCleanup,
		RollbackOnFailure:    rollback,
		PlatformMode:         r.PlatformMode,
	}
}
