// Package tui implements the terminal interface for browsing the mod
// catalogue.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gamemods/modhub/internal/assetcache"
	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/feed"
	"github.com/gamemods/modhub/internal/paginate"
	"github.com/gamemods/modhub/internal/query"
	"github.com/gamemods/modhub/internal/tui/styles"
	"github.com/gamemods/modhub/internal/variant"
)

// Loader produces the catalogue, typically a feed.Source.
type Loader interface {
	Load(ctx context.Context) (feed.Result, error)
}

// Opener hands a URL to an external program.
type Opener interface {
	Open(url string) error
}

// Phase is the top-level screen state
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseDegraded
	PhaseFailed
)

// Model is the root bubbletea model
type Model struct {
	loader Loader
	opener Opener
	cache  *assetcache.Cache // nil disables preview warming
	logger *slog.Logger

	phase     Phase
	loadErr   error
	catalogue domain.Catalogue
	fetchedAt time.Time
	games     []string

	state    domain.QueryState
	filtered domain.Catalogue
	window   paginate.Window
	pageSize int

	cursor     int
	variantIdx int

	searchInput textinput.Model
	searchSeq   int

	jump jumpOverlay

	status      string
	statusError bool

	width  int
	height int
}

// Options configure the TUI model
type Options struct {
	Loader   Loader
	Opener   Opener
	Cache    *assetcache.Cache
	Logger   *slog.Logger
	PageSize int
}

// NewModel creates the root model
func NewModel(opts Options) Model {
	if opts.PageSize < 1 {
		opts.PageSize = paginate.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = "Search mods..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle

	return Model{
		loader:      opts.Loader,
		opener:      opts.Opener,
		cache:       opts.Cache,
		logger:      opts.Logger,
		phase:       PhaseLoading,
		state:       domain.NewQueryState(),
		pageSize:    opts.PageSize,
		searchInput: ti,
		jump:        newJumpOverlay(),
	}
}

// Init starts the first catalogue load
func (m Model) Init() tea.Cmd {
	return LoadCatalogueCmd(m.loader)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CatalogueLoadedMsg:
		return m.handleLoaded(msg)

	case ErrMsg:
		if m.phase == PhaseLoading {
			m.phase = PhaseFailed
			m.loadErr = msg
			return m, nil
		}
		m.status = msg.Error()
		m.statusError = true
		return m, ClearStatusCmd()

	case SearchDebounceMsg:
		if msg.Seq != m.searchSeq {
			return m, nil
		}
		m.state = m.state.WithSearch(m.searchInput.Value())
		m.requery()
		return m, nil

	case ClearStatusMsg:
		m.status = ""
		m.statusError = false
		return m, nil

	case PreviewsCachedMsg:
		m.logger.Debug("preview precache finished", "count", msg.Count)
		return m, nil

	case LinkOpenedMsg:
		m.status = "opened " + msg.URL
		m.statusError = false
		return m, ClearStatusCmd()
	}

	return m, nil
}

func (m Model) handleLoaded(msg CatalogueLoadedMsg) (tea.Model, tea.Cmd) {
	m.catalogue = msg.Result.Catalogue
	m.fetchedAt = msg.Result.FetchedAt
	m.games = m.catalogue.Games()
	m.state = domain.NewQueryState()
	m.searchInput.SetValue("")
	m.cursor = 0

	if msg.Result.Degraded {
		m.phase = PhaseDegraded
	} else {
		m.phase = PhaseReady
	}
	m.requery()

	if m.cache != nil && !msg.Result.Degraded {
		if urls := previewURLs(m.catalogue); len(urls) > 0 {
			return m, WarmPreviewsCmd(m.cache, urls)
		}
	}
	return m, nil
}

// requery recomputes the visible window from the catalogue and query state.
// A too-short search keeps the previous results on screen.
func (m *Model) requery() {
	filtered, err := query.Filter(m.catalogue, m.state)
	if err != nil {
		m.status = "keep typing, search needs at least 2 characters"
		m.statusError = false
		return
	}

	m.filtered = filtered
	m.window = paginate.Paginate(filtered, m.state.Page, m.pageSize)
	m.state.Page = m.window.Page

	if m.cursor >= len(m.window.Items) {
		m.cursor = len(m.window.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.variantIdx = 0
}

// setPage moves to a page and refreshes the window
func (m *Model) setPage(page int) {
	m.state = m.state.WithPage(page)
	m.cursor = 0
	m.requery()
}

// currentMod returns the mod under the cursor
func (m Model) currentMod() (domain.Mod, bool) {
	if m.cursor < 0 || m.cursor >= len(m.window.Items) {
		return domain.Mod{}, false
	}
	return m.window.Items[m.cursor], true
}

// selectedVariant resolves the download for the current mod and variant
// selection, revalidating the link.
func (m Model) selectedVariant() (domain.Variant, bool) {
	mod, ok := m.currentMod()
	if !ok {
		return domain.Variant{}, false
	}
	opts := variant.Options(mod)
	if m.variantIdx < 0 || m.variantIdx >= len(opts) {
		return domain.Variant{}, false
	}
	return variant.ResolveSelected(mod, opts[m.variantIdx].Label)
}

// previewsCached reports whether every preview image of the mod is already
// in the asset cache.
func (m Model) previewsCached(mod domain.Mod) bool {
	if m.cache == nil || len(mod.PreviewImages) == 0 {
		return false
	}
	for _, url := range mod.PreviewImages {
		if !m.cache.Cached(url) {
			return false
		}
	}
	return true
}

// previewURLs collects every preview image URL in the catalogue
func previewURLs(c domain.Catalogue) []string {
	var urls []string
	for _, m := range c {
		urls = append(urls, m.PreviewImages...)
	}
	return urls
}
