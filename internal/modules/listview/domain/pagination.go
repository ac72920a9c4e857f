package domain

import (
	"net/url"
	"strconv"
)

const (
	MinItemsPerPage     = 1
	MaxItemsPerPage     = 100
	DefaultItemsPerPage = 15
)

// PageState is the current page position of a list view.
type PageState struct {
	CurrentPage  int
	ItemsPerPage int
}

// Normalize returns a sanitized copy applying defaults and bounds for the given filtered count.
func (p PageState) Normalize(filteredCount int) PageState {
	normalized := p
	normalized.ItemsPerPage = NormalizeItemsPerPage(normalized.ItemsPerPage)
	normalized.CurrentPage = ClampPage(normalized.CurrentPage, TotalPages(filteredCount, normalized.ItemsPerPage))
	return normalized
}

// NormalizeItemsPerPage applies the default page size and the [1, 100] bounds.
func NormalizeItemsPerPage(size int) int {
	if size <= 0 {
		return DefaultItemsPerPage
	}
	if size > MaxItemsPerPage {
		return MaxItemsPerPage
	}
	return size
}

// TotalPages is ceil(count / perPage). An empty view has zero pages.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// ClampPage bounds page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page is one visible slice of a filtered view.
type Page[T any] struct {
	Items         []T `json:"items"`
	CurrentPage   int `json:"currentPage"`
	ItemsPerPage  int `json:"itemsPerPage"`
	TotalPages    int `json:"totalPages"`
	FilteredCount int `json:"filteredCount"`
	TotalCount    int `json:"totalCount"`
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool { return p.CurrentPage > 1 }

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool { return p.CurrentPage < p.TotalPages }

// PageNumbers lists 1..TotalPages for pagination controls.
func (p Page[T]) PageNumbers() []int {
	numbers := make([]int, 0, p.TotalPages)
	for i := 1; i <= p.TotalPages; i++ {
		numbers = append(numbers, i)
	}
	return numbers
}

// Paginate slices filtered at [(page-1)*perPage, page*perPage). The returned items are a copy.
func Paginate[T any](filtered []T, state PageState) []T {
	if state.CurrentPage < 1 || state.ItemsPerPage < 1 {
		return []T{}
	}
	first := (state.CurrentPage - 1) * state.ItemsPerPage
	if first >= len(filtered) {
		return []T{}
	}
	last := first + state.ItemsPerPage
	if last > len(filtered) {
		last = len(filtered)
	}
	out := make([]T, last-first)
	copy(out, filtered[first:last])
	return out
}

// ToURLValues returns the page parameters ready for links.
func (p PageState) ToURLValues() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.CurrentPage))
	values.Set("size", strconv.Itoa(p.ItemsPerPage))
	return values
}
