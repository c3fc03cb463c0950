package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare domain", "example.com", "example.com"},
		{"https scheme", "https://example.com", "example.com"},
		{"http scheme", "http://example.com", "example.com"},
		{"www label", "www.example.com", "example.com"},
		{"full dressing", "https://www.Example.com/", "example.com"},
		{"trailing slash", "example.com/", "example.com"},
		{"path kept", "example.com/pricing", "example.com/pricing"},
		{"port kept", "example.com:8080", "example.com:8080"},
		{"percent kept", "example.com/a%20b", "example.com/a%20b"},
		{"upper case", "HTTPS://WWW.ACME.IO", "acme.io"},
		{"surrounding space", "  acme.io  ", "acme.io"},
		{"scheme behind www", "www.https://acme.io", "acme.io"},
		{"double slash", "acme.io//", "acme.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.in))
		})
	}
}

func TestURLIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"example.com",
		"https://www.Example.com/",
		"http://http://weird",
		"www.www.example.com",
		"acme.io///",
		"  HTTP://WWW.A.B/ ",
		"https://",
		"www.",
		"/",
	}
	for _, in := range inputs {
		once := URL(in)
		assert.Equal(t, once, URL(once), "not idempotent for %q", in)
	}
}

func TestURLEquivalence(t *testing.T) {
	assert.Equal(t, URL("example.com"), URL("https://www.Example.com/"))
	assert.Equal(t, URL("acme.com"), URL("http://www.acme.com/"))
	assert.NotEqual(t, URL("acme.com"), URL("acme.com/pricing"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "acme software", Name("  Acme Software "))
	assert.Equal(t, "", Name(""))
	assert.Equal(t, Name("ACME"), Name("acme"))
}
