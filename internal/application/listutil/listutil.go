// Package listutil parses list-endpoint query parameters and slices results into pages.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 50

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{20, 50, 100, 200}

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string
	Dir  string
}

// Descending reports whether Dir is desc.
func (s SortParams) Descending() bool {
	return s.Dir == Desc
}

// Apply flips a comparison result for descending order.
func (s SortParams) Apply(cmp int) int {
	if s.Descending() {
		return -cmp
	}
	return cmp
}

// ListParams combines the parameters of a searchable list endpoint.
type ListParams struct {
	PageParams
	SortParams
	Search string
}

// PageInfo carries pagination metadata returned alongside a page.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePageParams extracts page and per_page from URL query values.
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseSortParams extracts sort and dir from URL query values.
// An unknown column falls back to fallback.
// POST: Dir is always Asc or Desc
func ParseSortParams(q url.Values, allowed []string, fallback string) SortParams {
	sort := q.Get("sort")
	if !slices.Contains(allowed, sort) {
		sort = fallback
	}
	dir := strings.ToLower(q.Get("dir"))
	if dir != Desc {
		dir = Asc
	}
	return SortParams{Sort: sort, Dir: dir}
}

// ParseListParams parses page, sort and the free-text q parameter.
func ParseListParams(q url.Values, allowedSort []string, fallbackSort string) ListParams {
	return ListParams{
		PageParams: ParsePageParams(q),
		SortParams: ParseSortParams(q, allowedSort, fallbackSort),
		Search:     strings.TrimSpace(q.Get("q")),
	}
}

// NewPageInfo computes pagination metadata.
// POST: Page clamped to [1, TotalPages]; TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate returns the rows of items on the page described by params.
// POST: the returned slice aliases items
func Paginate[T any](items []T, params PageParams) ([]T, PageInfo) {
	info := NewPageInfo(params.Page, params.PerPage, len(items))
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end], info
}
