// Package query filters the catalogue by game and free-text search. All
// functions are pure over their inputs and preserve catalogue order.
package query

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/gamemods/modhub/internal/domain"
)

// MinSearchLen is the shortest search text that runs a filter. Shorter
// non-empty input returns domain.ErrQueryTooShort and callers keep the
// previous result set on screen.
const MinSearchLen = 2

// Filter applies the game filter and then the search over the catalogue.
// An empty search matches everything.
func Filter(c domain.Catalogue, q domain.QueryState) (domain.Catalogue, error) {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	if search != "" && len([]rune(search)) < MinSearchLen {
		return nil, domain.ErrQueryTooShort
	}

	out := make(domain.Catalogue, 0, len(c))
	for _, m := range c {
		if !matchGame(m, q.Game) {
			continue
		}
		if search != "" && !matchSearch(m, search) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// matchGame keys the filter on the mod's game, case-insensitively. Mods with
// no game only appear under the identity filter.
func matchGame(m domain.Mod, game string) bool {
	if game == "" || strings.EqualFold(game, domain.GameAll) {
		return true
	}
	if m.Game == "" {
		return false
	}
	return strings.EqualFold(m.Game, game)
}

// matchSearch looks for the lowered search text in any canonical field.
func matchSearch(m domain.Mod, search string) bool {
	for _, field := range []string{m.Title, m.SecondaryName, m.Description, m.Author} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Suggestion is one fuzzy title match, ordered best first.
type Suggestion struct {
	Index int
	Mod   domain.Mod
}

// Suggest ranks catalogue titles against the given text. Index points back
// into the catalogue so callers can jump straight to the row.
func Suggest(c domain.Catalogue, text string, max int) []Suggestion {
	text = strings.TrimSpace(text)
	if text == "" || max <= 0 {
		return nil
	}

	titles := make([]string, len(c))
	for i, m := range c {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindFold(text, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	out := make([]Suggestion, 0, max)
	for _, r := range ranks {
		out = append(out, Suggestion{Index: r.OriginalIndex, Mod: c[r.OriginalIndex]})
		if len(out) == max {
			break
		}
	}
	return out
}
