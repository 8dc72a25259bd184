// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// Page holds validated offset pagination parameters. Both values are
// floored at 1; out-of-range or non-numeric input falls back to the
// defaults rather than erroring.
type Page struct {
	Page  int
	Limit int
}

// Parse extracts `page` and `limit` query parameters.
func Parse(r *http.Request) Page {
	return Page{
		Page:  intParam(r, "page", 1),
		Limit: intParam(r, "limit", DefaultLimit),
	}
}

// Skip returns the number of documents to skip: (page-1)*limit.
func (p Page) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Limit64 returns the limit as int64 for Mongo find options.
func (p Page) Limit64() int64 {
	return int64(p.Limit)
}

func intParam(r *http.Request, name string, def int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ParsePos extracts the numeric `pos` query parameter used by the
// reposition operations. Valid positions are finite and >= 0.
func ParsePos(r *http.Request) (float64, bool) {
	s := r.URL.Query().Get("pos")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != f || f > 1e15 {
		return 0, false
	}
	return f, true
}
