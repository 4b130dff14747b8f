package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gamemods/modhub/internal/assetcache"
	"github.com/gamemods/modhub/internal/domain"
)

// Command factories for async operations

// SearchDebounce is how long typing must pause before the filter runs.
const SearchDebounce = 300 * time.Millisecond

// statusLinger is how long a transient status message stays visible.
const statusLinger = 3 * time.Second

// LoadCatalogueCmd loads the catalogue from the feed source. A superseded
// load produces no message at all.
func LoadCatalogueCmd(loader Loader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := loader.Load(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSuperseded) {
				return nil
			}
			return ErrMsg{Err: err, Context: "loading catalogue"}
		}
		return CatalogueLoadedMsg{Result: result}
	}
}

// DebounceSearchCmd schedules the filter run for a search keystroke
func DebounceSearchCmd(seq int) tea.Cmd {
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Seq: seq}
	})
}

// ClearStatusCmd clears the status line after a short delay
func ClearStatusCmd() tea.Cmd {
	return tea.Tick(statusLinger, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// WarmPreviewsCmd precaches preview images in the background
func WarmPreviewsCmd(cache *assetcache.Cache, urls []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		cache.Precache(ctx, urls)
		return PreviewsCachedMsg{Count: len(urls)}
	}
}

// OpenLinkCmd hands a download URL to the system opener
func OpenLinkCmd(opener Opener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening link"}
		}
		return LinkOpenedMsg{URL: url}
	}
}
