// Package provisioner contains thin HTTP clients for the external
// resource providers the orchestrator wires together: database projects,
// source repositories, hosting projects, voice agents and notifications.
// Each client exposes create, probe and delete operations; all sequencing,
// verification policy and compensation lives in the workflow layer.
package provisioner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/edvin/launchpad/internal/platform"
)

// ErrNotFound is returned when a provider reports that the addressed
// resource does not exist. Cleanup and rollback treat it as success.
var ErrNotFound = errors.New("resource not found")

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned %d", e.Code)
	}
	return fmt.Sprintf("provider returned %d: %s", e.Code, e.Body)
}

// IsClientError reports whether err is a 4xx provider response other than
// 404. These are not retryable: the request itself is wrong.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && se.Code != http.StatusNotFound
}

// doJSON issues a JSON request and decodes a JSON response into out (when
// out is non-nil). Non-2xx responses become a *StatusError carrying a
// truncated body; 404 is returned as ErrNotFound.
func doJSON(ctx context.Context, hc *http.Client, method, url, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// correlation ID for provider-side request tracing
	req.Header.Set("X-Request-ID", platform.NewID())

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
