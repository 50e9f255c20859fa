// Package search keeps list views (page, filter, search term) in URL query state
// and turns keystrokes into committed search terms after a quiet period.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"fanvault-console/pkg/query"
)

const (
	ParamPage   = "page"
	ParamFilter = "filter"
	ParamSearch = "q"
)

// ViewState is everything a list page needs to rebuild itself after a reload or
// back/forward navigation.
type ViewState struct {
	Page   int    `json:"page"`
	Filter string `json:"filter,omitempty"`
	Search string `json:"search,omitempty"`
}

// ParseViewState reads the state from URL query values. A missing or invalid page
// becomes 1.
func ParseViewState(values url.Values) ViewState {
	page, err := strconv.Atoi(values.Get(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}
	return ViewState{
		Page:   page,
		Filter: strings.TrimSpace(values.Get(ParamFilter)),
		Search: strings.TrimSpace(values.Get(ParamSearch)),
	}
}

func (v ViewState) Values() url.Values {
	values := url.Values{}
	values.Set(ParamPage, strconv.Itoa(v.Page))
	if v.Filter != "" {
		values.Set(ParamFilter, v.Filter)
	}
	if v.Search != "" {
		values.Set(ParamSearch, v.Search)
	}
	return values
}

func (v ViewState) Encode() string {
	return v.Values().Encode()
}

// WithSearch commits a search term. Changing the term resets to page 1.
func (v ViewState) WithSearch(term string) ViewState {
	term = strings.TrimSpace(term)
	if term != v.Search {
		v.Search = term
		v.Page = 1
	}
	return v
}

// WithFilter changes the filter and resets to page 1.
func (v ViewState) WithFilter(filter string) ViewState {
	if filter != v.Filter {
		v.Filter = filter
		v.Page = 1
	}
	return v
}

func (v ViewState) WithPage(page int) ViewState {
	if page < 1 {
		page = 1
	}
	v.Page = page
	return v
}

// Key builds the cache key for this view under base.
func (v ViewState) Key(base query.Key) query.Key {
	return base.With(
		"page="+strconv.Itoa(v.Page),
		"filter="+v.Filter,
		"q="+v.Search,
	)
}

// ClampPage clamps page into [1, totalPages]. An empty result has one page.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// TotalPages returns the page count for total items at limit per page.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
