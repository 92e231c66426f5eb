package platform

import "strings"

// maxSlugLength bounds slugs so they stay usable as project names, repo
// names and subdomains across all providers.
const maxSlugLength = 40

// Slugify derives a deterministic, URL- and filesystem-safe identifier
// from a tenant display name. The same display name always yields the
// same slug, which is what makes pre-flight cleanup idempotent: a retry
// of the same request targets exactly the resources of the prior attempt.
//
// Lowercases, collapses every run of non-alphanumerics into a single
// hyphen, trims leading/trailing hyphens and caps the length.
func Slugify(displayName string) string {
	lower := strings.ToLower(displayName)

	var b strings.Builder
	b.Grow(len(lower))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}
