package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/query"
	"github.com/gamemods/modhub/internal/tui/styles"
)

const maxJumpResults = 8

// jumpOverlay is the fuzzy jump-to-mod modal
type jumpOverlay struct {
	input       textinput.Model
	suggestions []query.Suggestion
	cursor      int
	visible     bool
}

func newJumpOverlay() jumpOverlay {
	ti := textinput.New()
	ti.Placeholder = "Jump to mod..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle

	return jumpOverlay{input: ti}
}

// Show opens the overlay with a cleared input
func (j *jumpOverlay) Show() {
	j.visible = true
	j.input.Focus()
	j.input.SetValue("")
	j.suggestions = nil
	j.cursor = 0
}

// Hide closes the overlay
func (j *jumpOverlay) Hide() {
	j.visible = false
	j.input.Blur()
}

// Visible reports whether the overlay is open
func (j jumpOverlay) Visible() bool {
	return j.visible
}

// Selected returns the suggestion under the overlay cursor
func (j jumpOverlay) Selected() (query.Suggestion, bool) {
	if j.cursor < 0 || j.cursor >= len(j.suggestions) {
		return query.Suggestion{}, false
	}
	return j.suggestions[j.cursor], true
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.jump.Hide()
		return m, nil

	case "enter":
		s, ok := m.jump.Selected()
		m.jump.Hide()
		if ok {
			m.jumpTo(s.Mod)
		}
		return m, nil

	case "down", "ctrl+n":
		if m.jump.cursor < len(m.jump.suggestions)-1 {
			m.jump.cursor++
		}
		return m, nil

	case "up", "ctrl+p":
		if m.jump.cursor > 0 {
			m.jump.cursor--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jump.input, cmd = m.jump.input.Update(msg)
	m.jump.suggestions = query.Suggest(m.catalogue, m.jump.input.Value(), maxJumpResults)
	m.jump.cursor = 0
	return m, cmd
}

// jumpTo clears the filters and lands the cursor on the given mod
func (m *Model) jumpTo(mod domain.Mod) {
	m.state = domain.NewQueryState()
	m.searchInput.SetValue("")
	m.searchSeq++
	m.requery()

	for i, candidate := range m.filtered {
		if candidate.ID == mod.ID {
			m.setPage(i/m.pageSize + 1)
			m.cursor = i % m.pageSize
			return
		}
	}
}
