package utils

import (
	"strconv"

	"gorm.io/gorm"
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Total    int64
	PerPage  int
}

func (p *Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}
func (p *Page[T]) NextPageNumber() int     { return p.Number + 1 }
func (p *Page[T]) PreviousPageNumber() int { return p.Number - 1 }

// Pages lists every page number, for rendering a paginator.
func (p *Page[T]) Pages() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// PageNumber resolves a raw page query value against numPages.
// Missing or non-numeric values give 1, values below 1 give 1 and values
// past the end give the last page.
func PageNumber(raw string, numPages int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	if n > numPages {
		return numPages
	}
	return n
}

// Paginate counts q, clamps the requested page and loads that page's rows.
// q must already carry its model and ordering; scopes (preloads) only apply to
// the row query.
func Paginate[T any](q *gorm.DB, pageParam string, perPage int, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	if perPage <= 0 {
		perPage = 10
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	number := PageNumber(pageParam, numPages)

	items := make([]T, 0, perPage)
	if total > 0 {
		if err := q.Session(&gorm.Session{}).
			Scopes(scopes...).
			Offset((number - 1) * perPage).
			Limit(perPage).
			Find(&items).Error; err != nil {
			return nil, err
		}
	}
	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: numPages,
		Total:    total,
		PerPage:  perPage,
	}, nil
}
