// Package api provides the launchpad provisioning REST API.
//
// All /api/v1 routes require an X-API-Key header whose sha256 digest
// matches the configured key hash.
package api
