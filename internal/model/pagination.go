package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Default pagination values.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// ItemFilter selects a page of active items.
type ItemFilter struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
}

// DefaultItemFilter returns the filter used when nothing is specified.
func DefaultItemFilter() ItemFilter {
	return ItemFilter{Page: DefaultPage, Limit: DefaultLimit}
}

// ParseItemFilter coerces raw query values into a filter. Malformed or
// non-positive page and limit values fall back to the defaults and limit is
// capped at MaxLimit.
func ParseItemFilter(page, limit, category, search string) ItemFilter {
	return ItemFilter{
		Page:     positiveIntOr(page, DefaultPage),
		Limit:    min(positiveIntOr(limit, DefaultLimit), MaxLimit),
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
	}.Normalized()
}

// Normalized returns a copy with non-positive page and limit replaced by
// defaults and limit capped at MaxLimit.
func (f ItemFilter) Normalized() ItemFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	f.Limit = min(f.Limit, MaxLimit)
	return f
}

// Offset returns the number of rows skipped before this page. It saturates
// at math.MaxInt instead of overflowing.
func (f ItemFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// PastEnd reports whether the page starts beyond the last of total rows.
func (f ItemFilter) PastEnd(total int) bool {
	return f.Offset() >= total && f.Page > 1
}

func positiveIntOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		// Too large for int: saturate so the page reads as out of range.
		return n
	}
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Pagination describes where a page sits within the full result set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination derives the descriptor for page of a result set with total
// matching rows split into pages of limit.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// ItemPage is one page of list results.
type ItemPage struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}
