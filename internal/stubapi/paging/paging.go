package paging

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns a 1-based page and a page size into offset and limit.
// Out-of-range sizes fall back to DefaultPageSize.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// FromQuery reads page and size query values; unparsable values count as
// missing.
func FromQuery(page, size string) (offset, limit int) {
	p, _ := strconv.Atoi(page)
	s, _ := strconv.Atoi(size)
	return Calculate(p, s)
}
