package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/paginate"
	"github.com/gamemods/modhub/internal/tui/styles"
	"github.com/gamemods/modhub/internal/variant"
)

// View renders the current phase
func (m Model) View() string {
	switch m.phase {
	case PhaseLoading:
		return m.loadingView()
	case PhaseFailed:
		return m.failedView()
	}
	return m.browseView()
}

func (m Model) loadingView() string {
	return "\n  " + styles.AccentStyle.Render("modhub") + "\n\n  " +
		styles.DimStyle.Render("loading catalogue...") + "\n"
}

func (m Model) failedView() string {
	var b strings.Builder
	b.WriteString("\n  " + styles.AccentStyle.Render("modhub") + "\n\n")
	b.WriteString("  " + styles.ErrorStyle.Render("could not load the catalogue") + "\n")
	if m.loadErr != nil {
		b.WriteString("  " + styles.DimStyle.Render(m.loadErr.Error()) + "\n")
	}
	b.WriteString("\n  " + styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry  ") +
		styles.HelpKeyStyle.Render("q") + styles.HelpDescStyle.Render(" quit") + "\n")
	return b.String()
}

func (m Model) browseView() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString(m.tabsView())
	b.WriteString(m.searchView())
	b.WriteString(m.listView())
	b.WriteString(m.pageStripView())
	b.WriteString(m.footerView())

	if m.jump.Visible() {
		return m.jumpView(b.String())
	}
	return b.String()
}

func (m Model) headerView() string {
	title := styles.TitleStyle.Render("modhub")
	count := styles.DimStyle.Render(fmt.Sprintf("  %d mods", len(m.filtered)))

	line := "\n  " + title + count
	if m.phase == PhaseDegraded {
		banner := styles.WarnStyle.Render("offline, showing the last saved catalogue")
		if !m.fetchedAt.IsZero() {
			banner += styles.DimStyle.Render(" from " + m.fetchedAt.Format("Jan 2, 2006 15:04"))
		}
		line += "\n  " + banner
	}
	return line + "\n"
}

func (m Model) tabsView() string {
	tabs := []string{domain.GameAll}
	tabs = append(tabs, m.games...)

	var parts []string
	for _, g := range tabs {
		if strings.EqualFold(g, m.state.Game) {
			parts = append(parts, styles.TabActiveStyle.Render(g))
		} else {
			parts = append(parts, styles.TabStyle.Render(g))
		}
	}
	return "\n  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m Model) searchView() string {
	if m.searchInput.Focused() || m.searchInput.Value() != "" {
		return "  " + m.searchInput.View() + "\n"
	}
	return "  " + styles.DimStyle.Render("press / to search") + "\n"
}

func (m Model) listView() string {
	if len(m.window.Items) == 0 {
		return "\n  " + styles.DimStyle.Render("no mods match the current filters") + "\n\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, mod := range m.window.Items {
		b.WriteString(m.cardView(mod, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) cardView(mod domain.Mod, selected bool) string {
	width := m.width - 6
	if width < 40 {
		width = 74
	}

	title := styles.TitleStyle.Render(styles.Truncate(mod.Title, width-20))
	if mod.SecondaryName != "" {
		title += styles.SubtitleStyle.Render("  " + styles.Truncate(mod.SecondaryName, 18))
	}

	meta := styles.DimStyle.Render(fmt.Sprintf("%s · %s · %s",
		mod.Author, mod.FormattedRating(), mod.LastUpdated))
	if mod.FileSize != "" {
		meta += styles.DimStyle.Render(" · " + mod.FileSize)
	}
	if m.previewsCached(mod) {
		meta += styles.SuccessStyle.Render(" · previews saved")
	}

	lines := []string{title, meta}
	if mod.Description != "" {
		lines = append(lines, styles.SubtitleStyle.Render(styles.Truncate(mod.Description, width-4)))
	}
	lines = append(lines, m.variantsView(mod, selected))

	card := strings.Join(lines, "\n")
	if selected {
		return styles.CardSelectedStyle.Width(width).Render(card)
	}
	return styles.CardStyle.Width(width).Render(card)
}

func (m Model) variantsView(mod domain.Mod, selected bool) string {
	opts := variant.Options(mod)
	if len(opts) == 0 {
		return styles.DimStyle.Render("no downloads")
	}

	var parts []string
	for i, opt := range opts {
		switch {
		case !opt.Valid:
			parts = append(parts, styles.VariantDisabledStyle.Render(opt.Label))
		case selected && i == m.variantIdx:
			parts = append(parts, styles.VariantActiveStyle.Render(opt.Label))
		default:
			parts = append(parts, styles.VariantStyle.Render(opt.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) pageStripView() string {
	marks := paginate.PageMarks(m.window.Page, m.window.TotalPages)
	if len(marks) == 0 {
		return ""
	}

	var parts []string
	for _, mark := range marks {
		if mark.Ellipsis {
			parts = append(parts, styles.DimStyle.Render("..."))
			continue
		}
		if mark.Page == m.window.Page {
			parts = append(parts, styles.PageActiveStyle.Render(fmt.Sprintf("%d", mark.Page)))
		} else {
			parts = append(parts, styles.PageStyle.Render(fmt.Sprintf("%d", mark.Page)))
		}
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m Model) footerView() string {
	if m.status != "" {
		style := styles.SuccessStyle
		if m.statusError {
			style = styles.ErrorStyle
		}
		return "\n  " + style.Render(m.status) + "\n"
	}

	help := []struct{ key, desc string }{
		{"j/k", "move"},
		{"h/l", "page"},
		{"[/]", "game"},
		{"tab", "version"},
		{"o", "open"},
		{"/", "search"},
		{"f", "jump"},
		{"r", "reload"},
		{"q", "quit"},
	}

	var parts []string
	for _, h := range help {
		parts = append(parts, styles.HelpKeyStyle.Render(h.key)+" "+styles.HelpDescStyle.Render(h.desc))
	}
	return "\n  " + strings.Join(parts, "  ") + "\n"
}

func (m Model) jumpView(background string) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Jump to mod"))
	b.WriteString("\n" + m.jump.input.View() + "\n\n")

	if len(m.jump.suggestions) == 0 {
		b.WriteString(styles.DimStyle.Render("type to find a mod by title"))
	}
	for i, s := range m.jump.suggestions {
		line := highlightTitle(s.Mod.Title, m.jump.input.Value())
		if i == m.jump.cursor {
			line = styles.AccentStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		if s.Mod.Game != "" {
			line += styles.DimStyle.Render("  " + s.Mod.Game)
		}
		b.WriteString(line + "\n")
	}

	modal := styles.ModalStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return modal
}

// highlightTitle bolds the characters of title that the pattern matched
func highlightTitle(title, pattern string) string {
	if strings.TrimSpace(pattern) == "" {
		return title
	}

	matches := fuzzy.Find(pattern, []string{title})
	if len(matches) == 0 {
		return title
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range title {
		if matched[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
