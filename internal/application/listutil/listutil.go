// Package listutil parses list-view query parameters (search, filters, sort, paging)
// and cuts a page out of an in-memory result set.
package listutil

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size when ?per_page= is missing or not offered.
const DefaultPerPage = 20

// PerPageOptions are the page sizes the directory offers.
var PerPageOptions = []int{10, 20, 50, 100}

// Params is one list request: ?q=, the named filters, ?sort=&dir= and ?page=&per_page=.
type Params struct {
	Search  string
	Filters map[string]string
	Sort    string // empty when the column is not sortable
	Desc    bool
	Page    int // 1-indexed
	PerPage int
}

// Parse reads list parameters from q.
// PRE: sortable and filterKeys list the accepted column and filter names
// POST: Page >= 1; PerPage is one of PerPageOptions; unknown sort columns and filters are dropped
func Parse(q url.Values, sortable, filterKeys []string) Params {
	p := Params{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string, len(filterKeys)),
		Desc:    q.Get("dir") == "desc",
	}
	if col := q.Get("sort"); slices.Contains(sortable, col) {
		p.Sort = col
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			p.Filters[key] = v
		}
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, p.PerPage) {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Query re-encodes p with page replaced, for pagination links.
func (p Params) Query(page int) string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		if p.Desc {
			q.Set("dir", "desc")
		}
	}
	if p.PerPage != DefaultPerPage {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q.Encode()
}

// PageInfo is the pagination state rendered under a list.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo clamps page into range for total rows.
// POST: 1 <= Page <= TotalPages; TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	return PageInfo{
		Page:       min(max(page, 1), totalPages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// StartRow is the 1-indexed first row on the page, 0 for an empty list.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

// EndRow is the 1-indexed last row on the page.
func (p PageInfo) EndRow() int {
	return min(p.Page*p.PerPage, p.Total)
}

// PageNumbers returns up to five page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const buttons = 5
	start := max(p.Page-buttons/2, 1)
	end := start + buttons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-buttons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether the rows span more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Paginate returns the page of items p describes, along with its PageInfo.
// POST: the returned slice shares items' backing array
func Paginate[T any](items []T, p Params) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(items))
	lo := min((info.Page-1)*info.PerPage, len(items))
	hi := min(lo+info.PerPage, len(items))
	return items[lo:hi], info
}

// SortBy orders items in place by the string key for p.Sort. Ties keep their original order.
// No-op when p.Sort is empty.
func SortBy[T any](items []T, p Params, key func(item T, column string) string) {
	if p.Sort == "" {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		c := cmp.Compare(strings.ToLower(key(a, p.Sort)), strings.ToLower(key(b, p.Sort)))
		if p.Desc {
			return -c
		}
		return c
	})
}
