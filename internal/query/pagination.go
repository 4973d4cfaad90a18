package query

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
}

func (p Pagination) Offset() int32 {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page and limit query values. Malformed input
// falls back to the defaults instead of failing the request; numeric
// values are clamped to page >= 1 and 1 <= limit <= MaxLimit.
func ParsePagination(page, limit string) Pagination {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}

	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 1 {
		p.Page = int32(min(n, 1<<20))
	}

	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n != 0 {
		p.Limit = int32(max(1, min(n, MaxLimit)))
	}
	return p
}

// Page is one slice of a listing plus the total count of the filter it
// was drawn from.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
	Total int64 `json:"total"`
}

func NewPage[T any](items []T, p Pagination, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: p.Page, Limit: p.Limit, Total: total}
}
