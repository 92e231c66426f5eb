package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Ventures", "acme-ventures"},
		{"already lowercase", "acme", "acme"},
		{"punctuation collapsed", "Bob's Burgers & Fries, Inc.", "bob-s-burgers-fries-inc"},
		{"leading and trailing junk", "  --Acme!  ", "acme"},
		{"unicode stripped", "Café Motörhead", "caf-mot-rhead"},
		{"consecutive separators", "a   b___c", "a-b-c"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	// Same display name must always yield the same slug; it is the
	// idempotency key for cleanup.
	assert.Equal(t, Slugify("Acme Ventures"), Slugify("Acme Ventures"))
}

func TestSlugify_LengthCapped(t *testing.T) {
	long := strings.Repeat("verylongcompanyname ", 10)
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), 40)
	assert.False(t, strings.HasSuffix(slug, "-"))
}
