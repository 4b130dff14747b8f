package paginate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/query"
)

func catalogueOf(n int) domain.Catalogue {
	c := make(domain.Catalogue, n)
	for i := range c {
		c[i] = domain.Mod{ID: fmt.Sprintf("mod-%02d", i)}
	}
	return c
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     int
		page      int
		pageSize  int
		wantPage  int
		wantTotal int
		wantFirst string
		wantLen   int
	}{
		{"first page", 25, 1, 10, 1, 3, "mod-00", 10},
		{"middle page", 25, 2, 10, 2, 3, "mod-10", 10},
		{"short last page", 25, 3, 10, 3, 3, "mod-20", 5},
		{"exact multiple", 20, 2, 10, 2, 2, "mod-10", 10},
		{"page clamps high", 25, 99, 10, 3, 3, "mod-20", 5},
		{"page clamps low", 25, 0, 10, 1, 3, "mod-00", 10},
		{"single item", 1, 1, 10, 1, 1, "mod-00", 1},
		{"invalid page size uses default", 25, 1, 0, 1, 3, "mod-00", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := Paginate(catalogueOf(tt.items), tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, w.Page)
			assert.Equal(t, tt.wantTotal, w.TotalPages)
			require.Len(t, w.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, w.Items[0].ID)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	t.Parallel()

	w := Paginate(nil, 3, 10)
	assert.Empty(t, w.Items)
	assert.Equal(t, 1, w.Page)
	assert.Zero(t, w.TotalPages)
}

func TestPaginateCoversEverythingOnce(t *testing.T) {
	t.Parallel()

	c := catalogueOf(37)
	seen := make(map[string]int)

	w := Paginate(c, 1, 10)
	for page := 1; page <= w.TotalPages; page++ {
		w = Paginate(c, page, 10)
		for _, m := range w.Items {
			seen[m.ID]++
		}
	}

	require.Len(t, seen, 37)
	for id, count := range seen {
		assert.Equal(t, 1, count, "mod %s appeared %d times", id, count)
	}
}

func TestPageMarks(t *testing.T) {
	t.Parallel()

	marks := func(ms []Mark) string {
		out := ""
		for _, m := range ms {
			if m.Ellipsis {
				out += " ..."
			} else {
				out += fmt.Sprintf(" %d", m.Page)
			}
		}
		return out
	}

	tests := []struct {
		name  string
		page  int
		total int
		want  string
	}{
		{"single page", 1, 1, ""},
		{"no pages", 1, 0, ""},
		{"two pages", 1, 2, " 1 2"},
		{"middle of long run", 5, 10, " 1 ... 4 5 6 ... 10"},
		{"near start", 2, 10, " 1 2 3 ... 10"},
		{"near end", 9, 10, " 1 ... 8 9 10"},
		{"adjacent to first", 3, 10, " 1 2 3 4 ... 10"},
		{"page clamps", 99, 5, " 1 ... 4 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, marks(PageMarks(tt.page, tt.total)))
		})
	}
}

func TestPageMarksBounded(t *testing.T) {
	t.Parallel()

	for page := 1; page <= 50; page++ {
		marks := PageMarks(page, 50)
		require.LessOrEqual(t, len(marks), 7)

		numbers := 0
		hasFirst, hasLast := false, false
		for _, m := range marks {
			if m.Ellipsis {
				continue
			}
			numbers++
			if m.Page == 1 {
				hasFirst = true
			}
			if m.Page == 50 {
				hasLast = true
			}
		}
		assert.LessOrEqual(t, numbers, 5)
		assert.True(t, hasFirst, "page 1 always present")
		assert.True(t, hasLast, "last page always present")
	}
}

func TestFilterThenPaginate(t *testing.T) {
	t.Parallel()

	c := domain.Catalogue{
		{Title: "A", Game: "G1", Variants: domain.Variants{{Label: "1.0", URL: "https://a/1"}}},
		{Title: "B", Game: "G2"},
	}

	filtered, err := query.Filter(c, domain.QueryState{Game: "G1", Page: 1})
	require.NoError(t, err)

	w := Paginate(filtered, 1, 1)
	require.Len(t, w.Items, 1)
	assert.Equal(t, "A", w.Items[0].Title)
	assert.Equal(t, 1, w.TotalPages)
}
