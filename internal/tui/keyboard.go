package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/variant"
)

// handleKey routes keystrokes by the active input context: the jump overlay
// first, then the focused search input, then the browse keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.jump.Visible() {
		return m.handleJumpKey(msg)
	}

	if m.searchInput.Focused() {
		return m.handleSearchKey(msg)
	}

	switch m.phase {
	case PhaseLoading:
		// Search entry stays available while the catalogue loads.
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			m.searchInput.Focus()
		}
		return m, nil
	case PhaseFailed:
		return m.handleFailedKey(msg)
	}

	return m.handleBrowseKey(msg)
}

func (m Model) handleFailedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.phase = PhaseLoading
		m.loadErr = nil
		return m, LoadCatalogueCmd(m.loader)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchSeq++
		m.state = m.state.WithSearch("")
		m.requery()
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.searchSeq++
		m.state = m.state.WithSearch(m.searchInput.Value())
		m.requery()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.searchSeq++
		return m, tea.Batch(cmd, DebounceSearchCmd(m.searchSeq))
	}
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "r":
		m.phase = PhaseLoading
		return m, LoadCatalogueCmd(m.loader)

	case "/":
		m.searchInput.Focus()
		return m, nil

	case "f":
		m.jump.Show()
		return m, nil

	case "j", "down":
		if m.cursor < len(m.window.Items)-1 {
			m.cursor++
			m.variantIdx = 0
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.variantIdx = 0
		}
		return m, nil

	case "l", "right":
		if m.state.Page < m.window.TotalPages {
			m.setPage(m.state.Page + 1)
		}
		return m, nil

	case "h", "left":
		if m.state.Page > 1 {
			m.setPage(m.state.Page - 1)
		}
		return m, nil

	case "g":
		m.setPage(1)
		return m, nil

	case "G":
		m.setPage(m.window.TotalPages)
		return m, nil

	case "[":
		m.cycleGame(-1)
		return m, nil

	case "]":
		m.cycleGame(1)
		return m, nil

	case "tab":
		if mod, ok := m.currentMod(); ok && len(mod.Variants) > 0 {
			m.variantIdx = (m.variantIdx + 1) % len(mod.Variants)
		}
		return m, nil

	case "o", "enter":
		return m.openSelected()
	}

	return m, nil
}

// cycleGame moves the game filter through: all, then each game in
// first-appearance order.
func (m *Model) cycleGame(delta int) {
	tabs := append([]string{domain.GameAll}, m.games...)

	current := 0
	for i, g := range tabs {
		if strings.EqualFold(g, m.state.Game) {
			current = i
			break
		}
	}

	next := (current + delta + len(tabs)) % len(tabs)
	m.state = m.state.WithGame(tabs[next])
	m.cursor = 0
	m.requery()
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	mod, ok := m.currentMod()
	if !ok {
		return m, nil
	}
	if !mod.HasDownloads() {
		m.status = "no downloads for " + mod.Title
		m.statusError = false
		return m, ClearStatusCmd()
	}

	v, ok := m.selectedVariant()
	if !ok {
		label := variant.Options(mod)[m.variantIdx].Label
		m.status = "download " + label + " is not available"
		m.statusError = true
		return m, ClearStatusCmd()
	}
	return m, OpenLinkCmd(m.opener, v.URL)
}
