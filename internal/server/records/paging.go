package records

import (
	"slices"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// ParsePaging reads page and limit query values. Missing, malformed or
// non-positive values fall back to DefaultPage and DefaultLimit.
func ParsePaging(rawPage, rawLimit string) (page, limit int) {
	return positiveOr(rawPage, DefaultPage), positiveOr(rawLimit, DefaultLimit)
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Paginate orders items with cmp (when non-nil) and returns the 1-based page
// of size limit. A page past the end yields no items; page and limit below
// one are treated as the defaults.
func Paginate[T any](items []T, cmp func(a, b T) int, page, limit int) Page[T] {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	sorted := slices.Clone(items)
	if cmp != nil {
		slices.SortStableFunc(sorted, cmp)
	}

	total := len(sorted)
	totalPages := 0
	if total > 0 {
		totalPages = (total-1)/limit + 1
	}

	start := total
	if page-1 < totalPages {
		start = (page - 1) * limit
	}
	end := start + min(limit, total-start)

	out := make([]T, end-start)
	copy(out, sorted[start:end])

	return Page[T]{
		Items: out,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}
