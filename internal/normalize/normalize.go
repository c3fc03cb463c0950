// Package normalize reduces identifying fields to canonical comparable forms
// and deduplicates candidate sequences by normalized key.
package normalize

import "strings"

// URL reduces a URL to its canonical comparable form: lower-cased, with the
// leading http:// or https:// scheme removed, the leading "www." label
// removed, and trailing slashes removed. Nothing else is touched: no
// percent-decoding, no port or path canonicalization, so callers must not
// rely on more than label-level equivalence. Stripping runs to a fixpoint,
// which makes the function idempotent on every input. Total; the empty
// string maps to itself.
func URL(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for {
		next := stripOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripOnce(s string) string {
	if rest, ok := strings.CutPrefix(s, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(s, "http://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(s, "www."); ok {
		return rest
	}
	return strings.TrimSuffix(s, "/")
}

// Name reduces a company or person name to its comparable form.
func Name(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
