package feed

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gamemods/modhub/internal/domain"
)

const (
	fallbackTitle  = "Untitled Mod"
	fallbackAuthor = "Unknown"
	displayDate    = "Jan 2, 2006"
)

// feedDateLayouts are the timestamp shapes seen in feed payloads, tried in order.
var feedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"January 2, 2006",
	displayDate,
	"01/02/2006",
}

// Normalizer turns raw feed records into catalogue entries. Suffix and Now are
// injectable so tests get stable IDs and dates.
type Normalizer struct {
	Suffix func() string
	Now    func() time.Time
	Strict bool
	Logger *slog.Logger
}

// NewNormalizer returns a Normalizer with production defaults.
func NewNormalizer(strict bool, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		Suffix: RandomSuffix,
		Now:    time.Now,
		Strict: strict,
		Logger: logger,
	}
}

// Normalize fills defaults, derives missing IDs, and formats dates. In strict
// mode, records with neither a title nor any download variant are dropped.
func (n *Normalizer) Normalize(raw []rawMod) domain.Catalogue {
	out := make(domain.Catalogue, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, r := range raw {
		if n.Strict && strings.TrimSpace(r.Title) == "" && len(r.Versions) == 0 {
			if n.Logger != nil {
				n.Logger.Warn("dropping feed record with no title and no downloads", "index", i)
			}
			continue
		}

		m := domain.Mod{
			ID:            strings.TrimSpace(r.ID),
			Title:         strings.TrimSpace(r.Title),
			Game:          strings.TrimSpace(r.Game),
			SecondaryName: strings.TrimSpace(r.NameMod),
			Description:   strings.TrimSpace(r.Description),
			Author:        strings.TrimSpace(r.Author),
			FileSize:      strings.TrimSpace(r.FileSize),
			Variants:      r.Versions,
		}

		if m.Title == "" {
			m.Title = fallbackTitle
		}
		if m.Author == "" {
			m.Author = fallbackAuthor
		}
		if r.Rating != nil {
			m.Rating = *r.Rating
		}

		m.LastUpdated = n.normalizeDate(r.LastUpdated)

		for _, img := range []string{r.ModImage1, r.ModImage2} {
			if img = strings.TrimSpace(img); img != "" {
				m.PreviewImages = append(m.PreviewImages, img)
			}
		}

		if m.ID == "" {
			m.ID = slug(m.Title) + "-" + n.Suffix()
		}
		for seen[m.ID] {
			m.ID = m.ID + "-" + n.Suffix()
		}
		seen[m.ID] = true

		out = append(out, m)
	}
	return out
}

// normalizeDate reformats a parseable date for display, keeps unknown shapes
// verbatim, and stamps the current date when the feed gave nothing.
func (n *Normalizer) normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return n.Now().Format(displayDate)
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDate)
		}
	}
	return raw
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomSuffix returns a 9-character base36 token for derived mod IDs.
func RandomSuffix() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}

// slug lowercases a title and collapses everything non-alphanumeric to dashes.
func slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "mod"
	}
	return out
}
