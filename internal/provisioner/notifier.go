package provisioner

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NotifierClient delivers templated welcome notifications through the
// messaging vendor's API. Notification has no verify or delete operation;
// delivery acknowledgement is the create response itself.
type NotifierClient struct {
	baseURL string
	apiKey  string
	from    string
	hc      *http.Client
}

func NewNotifierClient(baseURL, apiKey, from string) *NotifierClient {
	return &NotifierClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Notification is one templated message to a recipient.
type Notification struct {
	Recipient string            `json:"recipient"`
	Template  string            `json:"template"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Send delivers the notification and returns once the vendor acknowledges
// it. 4xx responses surface as *StatusError so the activity can mark them
// non-retryable.
func (c *NotifierClient) Send(ctx context.Context, n Notification) error {
	err := doJSON(ctx, c.hc, http.MethodPost, c.baseURL+"/messages", c.apiKey, map[string]any{
		"from":      c.from,
		"to":        n.Recipient,
		"template":  n.Template,
		"variables": n.Variables,
	}, nil)
	if err != nil {
		return fmt.Errorf("send notification to %s: %w", n.Recipient, err)
	}
	return nil
}
