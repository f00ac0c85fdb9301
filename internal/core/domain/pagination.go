package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination is the page metadata returned by every article list.
type Pagination struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NormalizePage clamps page to >= 1 and limit to [1, MaxPageSize], substituting
// DefaultPageSize for a non-positive limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// NewPagination derives the page counters from the matching row count.
// Total is ceil(count / limit); a page past the end has no next page.
func NewPagination(page, limit int, count int64) Pagination {
	total := 0
	if limit > 0 {
		total = int((count + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Current: page,
		Total:   total,
		HasNext: page < total,
		HasPrev: page > 1,
	}
}

// PageOffset returns how many rows precede page. ok is false when the offset
// does not fit in an int64; such a page always lies past the last one.
func PageOffset(page, limit int) (offset int64, ok bool) {
	if page <= 1 || limit <= 0 {
		return 0, true
	}
	prev := int64(page - 1)
	if prev > math.MaxInt64/int64(limit) {
		return 0, false
	}
	return prev * int64(limit), true
}
