// Package variant decides which download link a mod card exposes and whether
// a link is safe to hand to the system opener.
package variant

import (
	"net/url"

	"github.com/gamemods/modhub/internal/domain"
)

// Valid reports whether raw is an absolute http(s) URL. Placeholder links
// ("#", empty) and non-web schemes are rejected.
func Valid(raw string) bool {
	if raw == "" || raw == "#" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ResolveDefault returns the mod's primary download: the first declared
// variant, provided its link validates.
func ResolveDefault(m domain.Mod) (domain.Variant, bool) {
	if len(m.Variants) == 0 {
		return domain.Variant{}, false
	}
	first := m.Variants[0]
	if !Valid(first.URL) {
		return domain.Variant{}, false
	}
	return first, true
}

// ResolveSelected returns the variant for a label, revalidating its link at
// selection time.
func ResolveSelected(m domain.Mod, label string) (domain.Variant, bool) {
	raw, ok := m.Variants.Get(label)
	if !ok || !Valid(raw) {
		return domain.Variant{}, false
	}
	return domain.Variant{Label: label, URL: raw}, true
}

// Option is one selectable variant with its validity precomputed for display.
type Option struct {
	Label string
	URL   string
	Valid bool
}

// Options lists the mod's variants in declaration order for a picker.
func Options(m domain.Mod) []Option {
	if len(m.Variants) == 0 {
		return nil
	}
	out := make([]Option, len(m.Variants))
	for i, v := range m.Variants {
		out[i] = Option{Label: v.Label, URL: v.URL, Valid: Valid(v.URL)}
	}
	return out
}
