package activity

import (
	"context"

	"go.temporal.io/sdk/temporal"

	"github.com/edvin/launchpad/internal/provisioner"
)

// Notify contains the welcome notification activity.
type Notify struct {
	client *provisioner.NotifierClient
}

func NewNotify(client *provisioner.NotifierClient) *Notify {
	return &Notify{client: client}
}

// SendWelcomeParams holds parameters for SendWelcomeNotification.
type SendWelcomeParams struct {
	Recipient   string `json:"recipient"`
	AdminName   string `json:"admin_name,omitempty"`
	CompanyName string `json:"company_name"`
	PlatformURL string `json:"platform_url"`
}

// SendWelcomeNotification delivers the "your instance is ready" message.
// Best-effort from the workflow's perspective: the step is non-fatal.
func (a *Notify) SendWelcomeNotification(ctx context.Context, params SendWelcomeParams) error {
	err := a.client.Send(ctx, provisioner.Notification{
		Recipient: params.Recipient,
		Template:  "tenant-welcome",
		Variables: map[string]string{
			"admin_name":   params.AdminName,
			"company_name": params.CompanyName,
			"platform_url": params.PlatformURL,
		},
	})
	if err != nil && provisioner.IsClientError(err) {
		return temporal.NewNonRetryableApplicationError(err.Error(), "CLIENT_ERROR", err)
	}
	return err
}
