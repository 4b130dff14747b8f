package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Variant is one labeled downloadable version of a mod.
type Variant struct {
	Label string
	URL   string
}

// Variants is the ordered set of download variants for a mod. Order follows
// the feed's JSON object declaration order, which encoding/json maps would
// lose, so (un)marshaling is done by hand.
type Variants []Variant

// UnmarshalJSON decodes a JSON object into label/URL pairs in declaration order.
func (v *Variants) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("variants: expected JSON object, got %v", tok)
	}

	var out Variants
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("variants: non-string key %v", keyTok)
		}

		var url string
		if err := dec.Decode(&url); err != nil {
			return fmt.Errorf("variants: value for %q: %w", label, err)
		}
		out = append(out, Variant{Label: label, URL: url})
	}

	*v = out
	return nil
}

// MarshalJSON encodes the variants back to a JSON object, preserving order.
func (v Variants) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(entry.Label)
		if err != nil {
			return nil, err
		}
		url, err := json.Marshal(entry.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(url)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the URL for a label, in feed order on duplicates (first wins).
func (v Variants) Get(label string) (string, bool) {
	for _, entry := range v {
		if entry.Label == label {
			return entry.URL, true
		}
	}
	return "", false
}

// Mod represents one normalized entry of the catalogue.
type Mod struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Game          string   `json:"game,omitempty"`
	SecondaryName string   `json:"secondaryName,omitempty"`
	Description   string   `json:"description,omitempty"`
	Author        string   `json:"author,omitempty"`
	LastUpdated   string   `json:"lastUpdated,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	FileSize      string   `json:"fileSize,omitempty"`
	Variants      Variants `json:"variants,omitempty"`
	PreviewImages []string `json:"previewImages,omitempty"`
}

// HasDownloads reports whether the mod carries at least one variant.
func (m Mod) HasDownloads() bool {
	return len(m.Variants) > 0
}

// FormattedRating returns the rating for display, "unrated" when absent.
func (m Mod) FormattedRating() string {
	if m.Rating <= 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f", m.Rating)
}

// Catalogue is the full in-memory set of mods for the current session.
// It is replaced wholesale on every successful fetch, never mutated in place.
type Catalogue []Mod

// Games returns the distinct game keys in first-appearance order.
// Mods without a game are skipped; they only show under the "all" filter.
func (c Catalogue) Games() []string {
	seen := make(map[string]bool)
	var games []string
	for _, m := range c {
		if m.Game == "" {
			continue
		}
		key := strings.ToLower(m.Game)
		if seen[key] {
			continue
		}
		seen[key] = true
		games = append(games, m.Game)
	}
	return games
}

// GameAll is the identity game filter.
const GameAll = "all"

// QueryState is the user's current search/filter/page selection. It is owned
// by the presentation layer and passed by value into the query and pagination
// functions.
type QueryState struct {
	Search string
	Game   string
	Page   int
}

// NewQueryState returns the initial state: no search, all games, first page.
func NewQueryState() QueryState {
	return QueryState{Game: GameAll, Page: 1}
}

// WithSearch returns the state with the search text replaced. Any change
// resets the page to 1.
func (q QueryState) WithSearch(text string) QueryState {
	if text == q.Search {
		return q
	}
	q.Search = text
	q.Page = 1
	return q
}

// WithGame returns the state with the game filter replaced. Any change resets
// the page to 1.
func (q QueryState) WithGame(game string) QueryState {
	if strings.EqualFold(game, q.Game) {
		return q
	}
	q.Game = game
	q.Page = 1
	return q
}

// WithPage returns the state on a different page; search and game are untouched.
func (q QueryState) WithPage(page int) QueryState {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}
