// Package paginate slices a filtered catalogue into fixed-size pages and
// computes the compact page-number strip shown under the list.
package paginate

import (
	"sort"

	"github.com/gamemods/modhub/internal/domain"
)

// DefaultPageSize matches the feed's intended cards-per-page.
const DefaultPageSize = 10

// Window is one visible page of results. Page is clamped into the valid
// range, so it may differ from the requested page.
type Window struct {
	Items      domain.Catalogue
	Page       int
	TotalPages int
}

// Paginate cuts the catalogue into pages of pageSize and returns the window
// for the requested page. Out-of-range pages clamp to the nearest valid page.
// An empty catalogue yields TotalPages 0 with Page 1.
func Paginate(c domain.Catalogue, page, pageSize int) Window {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if len(c) == 0 {
		return Window{Page: 1}
	}

	total := (len(c) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(c) {
		end = len(c)
	}

	return Window{Items: c[start:end], Page: page, TotalPages: total}
}

// Mark is one element of the page strip: a page number or an ellipsis gap.
type Mark struct {
	Page     int
	Ellipsis bool
}

// PageMarks builds the strip for the given position: first page, a window of
// one around the current page, the last page, and ellipses for the gaps.
// A single page needs no strip and returns nil.
func PageMarks(page, total int) []Mark {
	if total <= 1 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	keep := map[int]bool{1: true, total: true, page: true}
	if page-1 >= 1 {
		keep[page-1] = true
	}
	if page+1 <= total {
		keep[page+1] = true
	}

	pages := make([]int, 0, len(keep))
	for p := range keep {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var marks []Mark
	prev := 0
	for _, p := range pages {
		if prev != 0 && p-prev > 1 {
			marks = append(marks, Mark{Ellipsis: true})
		}
		marks = append(marks, Mark{Page: p})
		prev = p
	}
	return marks
}
