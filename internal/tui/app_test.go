package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/feed"
)

type stubLoader struct {
	result feed.Result
	err    error
	calls  int
}

func (s *stubLoader) Load(context.Context) (feed.Result, error) {
	s.calls++
	return s.result, s.err
}

type stubOpener struct {
	opened []string
	err    error
}

func (s *stubOpener) Open(url string) error {
	s.opened = append(s.opened, url)
	return s.err
}

func testCatalogue(n int) domain.Catalogue {
	c := make(domain.Catalogue, n)
	for i := range c {
		game := "Skyrim"
		if i%2 == 1 {
			game = "Fallout 4"
		}
		c[i] = domain.Mod{
			ID:    fmt.Sprintf("mod-%02d", i),
			Title: fmt.Sprintf("Test Mod %02d", i),
			Game:  game,
			Variants: domain.Variants{
				{Label: "v1", URL: fmt.Sprintf("https://example.com/%02d.zip", i)},
			},
		}
	}
	return c
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func readyModel(t *testing.T, c domain.Catalogue) Model {
	t.Helper()

	m := NewModel(Options{Loader: &stubLoader{}, Opener: &stubOpener{}})
	next, _ := m.Update(CatalogueLoadedMsg{Result: feed.Result{Catalogue: c}})
	return next.(Model)
}

func TestLoadedTransitionsToReady(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))

	assert.Equal(t, PhaseReady, m.phase)
	assert.Len(t, m.window.Items, 10)
	assert.Equal(t, 3, m.window.TotalPages)
	assert.Equal(t, []string{"Skyrim", "Fallout 4"}, m.games)
}

func TestDegradedResultShowsOfflinePhase(t *testing.T) {
	t.Parallel()

	m := NewModel(Options{Loader: &stubLoader{}, Opener: &stubOpener{}})
	next, _ := m.Update(CatalogueLoadedMsg{Result: feed.Result{Catalogue: testCatalogue(3), Degraded: true}})

	assert.Equal(t, PhaseDegraded, next.(Model).phase)
}

func TestLoadErrorThenRetry(t *testing.T) {
	t.Parallel()

	loader := &stubLoader{err: errors.New("boom")}
	m := NewModel(Options{Loader: loader, Opener: &stubOpener{}})

	next, _ := m.Update(ErrMsg{Err: loader.err, Context: "loading catalogue"})
	m = next.(Model)
	require.Equal(t, PhaseFailed, m.phase)

	next, cmd := m.Update(keyMsg("r"))
	m = next.(Model)
	assert.Equal(t, PhaseLoading, m.phase)
	require.NotNil(t, cmd)

	loader.err = nil
	loader.result = feed.Result{Catalogue: testCatalogue(2)}
	msg := cmd()
	next, _ = m.Update(msg)
	assert.Equal(t, PhaseReady, next.(Model).phase)
	assert.Equal(t, 1, loader.calls)
}

func TestPagingKeys(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))

	next, _ := m.Update(keyMsg("l"))
	m = next.(Model)
	assert.Equal(t, 2, m.state.Page)
	assert.Equal(t, "mod-10", m.window.Items[0].ID)

	next, _ = m.Update(keyMsg("G"))
	m = next.(Model)
	assert.Equal(t, 3, m.state.Page)

	next, _ = m.Update(keyMsg("l"))
	m = next.(Model)
	assert.Equal(t, 3, m.state.Page, "paging stops at the last page")

	next, _ = m.Update(keyMsg("g"))
	m = next.(Model)
	assert.Equal(t, 1, m.state.Page)

	next, _ = m.Update(keyMsg("h"))
	m = next.(Model)
	assert.Equal(t, 1, m.state.Page, "paging stops at the first page")
}

func TestGameCycleResetsPage(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))

	next, _ := m.Update(keyMsg("l"))
	m = next.(Model)
	require.Equal(t, 2, m.state.Page)

	next, _ = m.Update(keyMsg("]"))
	m = next.(Model)
	assert.Equal(t, "Skyrim", m.state.Game)
	assert.Equal(t, 1, m.state.Page, "filter change resets to the first page")
	for _, mod := range m.window.Items {
		assert.Equal(t, "Skyrim", mod.Game)
	}

	next, _ = m.Update(keyMsg("["))
	m = next.(Model)
	assert.Equal(t, domain.GameAll, m.state.Game)
}

func TestSearchDebounce(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	require.True(t, m.searchInput.Focused())

	next, cmd := m.Update(keyMsg("0"))
	m = next.(Model)
	require.NotNil(t, cmd)
	firstSeq := m.searchSeq

	next, _ = m.Update(keyMsg("3"))
	m = next.(Model)
	require.Greater(t, m.searchSeq, firstSeq)

	// The stale debounce fires but must not apply the shorter query.
	next, _ = m.Update(SearchDebounceMsg{Seq: firstSeq})
	m = next.(Model)
	assert.Empty(t, m.state.Search)

	next, _ = m.Update(SearchDebounceMsg{Seq: m.searchSeq})
	m = next.(Model)
	assert.Equal(t, "03", m.state.Search)
	require.Len(t, m.window.Items, 1)
	assert.Equal(t, "mod-03", m.window.Items[0].ID)
}

func TestShortSearchKeepsWindow(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))
	before := m.window

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("x"))
	m = next.(Model)
	next, _ = m.Update(SearchDebounceMsg{Seq: m.searchSeq})
	m = next.(Model)

	assert.Equal(t, before.Items, m.window.Items, "a one-character search leaves results untouched")
	assert.NotEmpty(t, m.status)
}

func TestSearchEscClearsFilter(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("0"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("3"))
	m = next.(Model)
	next, _ = m.Update(SearchDebounceMsg{Seq: m.searchSeq})
	m = next.(Model)
	require.Len(t, m.window.Items, 1)

	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)
	assert.False(t, m.searchInput.Focused())
	assert.Empty(t, m.state.Search)
	assert.Len(t, m.window.Items, 10)
}

func TestOpenSelectedVariant(t *testing.T) {
	t.Parallel()

	opener := &stubOpener{}
	m := NewModel(Options{Loader: &stubLoader{}, Opener: opener})
	next, _ := m.Update(CatalogueLoadedMsg{Result: feed.Result{Catalogue: testCatalogue(3)}})
	m = next.(Model)

	next, cmd := m.Update(keyMsg("o"))
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	opened, ok := msg.(LinkOpenedMsg)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/00.zip", opened.URL)
	assert.Equal(t, []string{"https://example.com/00.zip"}, opener.opened)
}

func TestOpenWithoutDownloads(t *testing.T) {
	t.Parallel()

	opener := &stubOpener{}
	c := domain.Catalogue{{ID: "bare", Title: "No Files Yet"}}
	m := NewModel(Options{Loader: &stubLoader{}, Opener: opener})
	next, _ := m.Update(CatalogueLoadedMsg{Result: feed.Result{Catalogue: c}})
	m = next.(Model)

	next, _ = m.Update(keyMsg("o"))
	m = next.(Model)

	assert.Empty(t, opener.opened)
	assert.Contains(t, m.status, "no downloads")
}

func TestVariantCycling(t *testing.T) {
	t.Parallel()

	c := domain.Catalogue{{
		ID:    "multi",
		Title: "Multi Version",
		Variants: domain.Variants{
			{Label: "v2", URL: "https://example.com/v2.zip"},
			{Label: "v1", URL: "https://example.com/v1.zip"},
		},
	}}

	opener := &stubOpener{}
	m := NewModel(Options{Loader: &stubLoader{}, Opener: opener})
	next, _ := m.Update(CatalogueLoadedMsg{Result: feed.Result{Catalogue: c}})
	m = next.(Model)

	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)
	assert.Equal(t, 1, m.variantIdx)

	next, cmd := m.Update(keyMsg("o"))
	require.NotNil(t, cmd)
	msg := cmd()
	opened, ok := msg.(LinkOpenedMsg)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/v1.zip", opened.URL)

	next, _ = next.(Model).Update(keyMsg("tab"))
	assert.Equal(t, 0, next.(Model).variantIdx, "cycling wraps around")
}

func TestJumpOverlay(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(25))

	next, _ := m.Update(keyMsg("f"))
	m = next.(Model)
	require.True(t, m.jump.Visible())

	for _, r := range "mod 14" {
		next, _ = m.Update(keyMsg(string(r)))
		m = next.(Model)
	}
	require.NotEmpty(t, m.jump.suggestions)

	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)
	assert.False(t, m.jump.Visible())

	mod, ok := m.currentMod()
	require.True(t, ok)
	assert.Equal(t, "mod-14", mod.ID)
	assert.Equal(t, 2, m.state.Page)
}

func TestCursorMovement(t *testing.T) {
	t.Parallel()

	m := readyModel(t, testCatalogue(5))

	next, _ := m.Update(keyMsg("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(keyMsg("k"))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(keyMsg("k"))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor, "cursor stops at the top")
}
