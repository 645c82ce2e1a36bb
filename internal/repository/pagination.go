package repository

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest is a normalized page/limit pair
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest coerces caller-supplied page and limit strings. Absent,
// non-numeric, zero or negative values fall back to the defaults. Page is
// capped so the skip offset fits in an int64.
func ParsePageRequest(page, limit string) PageRequest {
	req := PageRequest{
		Page:  positiveIntOr(page, DefaultPage),
		Limit: positiveIntOr(limit, DefaultLimit),
	}
	if maxPage := math.MaxInt64 / int64(req.Limit); int64(req.Page) > maxPage {
		req.Page = int(maxPage)
	}
	return req
}

// Skip returns the number of records before the requested page
func (r PageRequest) Skip() int64 {
	return int64(r.Page-1) * int64(r.Limit)
}

// TotalPages returns ceil(total / limit)
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func positiveIntOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
