package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/pkg/repository"
)

// Page is the envelope of paginated listings.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageParams reads ?page= and ?limit=. Invalid values fall back to page 1
// and the default size; limit is capped at the configured maximum.
func (h *Handler) pageParams(c *gin.Context) repository.Page {
	number, err := strconv.Atoi(c.Query("page"))
	if err != nil || number < 1 {
		number = 1
	}
	size := h.pageSize
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		size = min(limit, h.maxPageSize)
	}
	return repository.Page{Number: number, Size: size}
}

func newPage[T any](c *gin.Context, page repository.Page, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: total, Results: results}
	if int64(page.Number)*int64(page.Size) < total {
		next := pageURL(c, page.Number+1)
		p.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(c, page.Number-1)
		p.Previous = &prev
	}
	return p
}

func pageURL(c *gin.Context, number int) string {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = c.Request.Host

	q := u.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
