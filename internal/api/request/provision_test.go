package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProvision(t *testing.T, body string) (CreateProvision, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/provisions", strings.NewReader(body))
	var req CreateProvision
	err := Decode(r, &req)
	return req, err
}

func TestDecodeCreateProvision_Valid(t *testing.T) {
	req, err := decodeProvision(t, `{
		"company_name": "Acme Ventures",
		"admin_email": "admin@acme.test",
		"admin_name": "Ada Admin"
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ventures", req.CompanyName)

	m := req.ToModel()
	assert.True(t, m.RollbackOnFailure, "rollback defaults on")
	assert.False(t, m.SkipPreflightCleanup)
}

func TestDecodeCreateProvision_RollbackDisabled(t *testing.T) {
	req, err := decodeProvision(t, `{
		"company_name": "Acme Ventures",
		"admin_email": "admin@acme.test",
		"admin_name": "Ada Admin",
		"rollback_on_failure": false
	}`)
	require.NoError(t, err)
	assert.False(t, req.ToModel().RollbackOnFailure)
}

func TestDecodeCreateProvision_InvalidEmail(t *testing.T) {
	_, err := decodeProvision(t, `{
		"company_name": "Acme Ventures",
		"admin_email": "not-an-email",
		"admin_name": "Ada Admin"
	}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
}

func TestDecodeCreateProvision_MissingCompanyName(t *testing.T) {
	_, err := decodeProvision(t, `{
		"admin_email": "admin@acme.test",
		"admin_name": "Ada Admin"
	}`)
	require.Error(t, err)
}

func TestDecodeCreateProvision_ExplicitSlug(t *testing.T) {
	req, err := decodeProvision(t, `{
		"company_name": "株式会社アクメ",
		"admin_email": "admin@acme.test",
		"admin_name": "Ada Admin",
		"slug": "acme-jp"
	}`)
	require.NoError(t, err)
	assert.Equal(t, "acme-jp", req.ToModel().Slug)
}

func TestDecodeCreateProvision_InvalidSlug(t *testing.T) {
	for _, slug := range []string{"Acme", "-acme", "acme_ventures", "acme ventures"} {
		_, err := decodeProvision(t, `{
			"company_name": "Acme Ventures",
			"admin_email": "admin@acme.test",
			"admin_name": "Ada Admin",
			"slug": "`+slug+`"
		}`)
		require.Error(t, err, "slug %q must be rejected", slug)
		assert.Contains(t, err.Error(), "validation error")
	}
}

func TestDecodeCreateProvision_BadJSON(t *testing.T) {
	_, err := decodeProvision(t, `{`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestDecodeCreateProvision_BadPlatformMode(t *testing.T) {
	_, err := decodeProvision(t, `{
		"company_name": "Acme Ventures",
		"admin_email": "admin@acme.test",
		"admin_name": "Ada Admin",
		"platform_mode": "turbo"
	}`)
	require.Error(t, err)
}
