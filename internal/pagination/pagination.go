// Package pagination implements optional page/page_size listing.
// Without page_size a listing returns every matching row.
package pagination

import (
	"math"

	"gorm.io/gorm"
)

// MaxPageSize caps page_size.
const MaxPageSize = 100

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in page 1 when only page_size was given. Without
// page_size the whole result set is page 1, whatever page was asked for.
func (p *PageRequest) Defaults() {
	if p.Page == 0 || !p.Enabled() {
		p.Page = 1
	}
}

// Enabled reports whether the caller asked for a bounded page.
func (p *PageRequest) Enabled() bool {
	return p.PageSize > 0
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	if !p.Enabled() || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
// A pageSize of 0 means the whole result set is on a single page.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	switch {
	case pageSize > 0:
		totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
	case totalItems > 0:
		totalPages = 1
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT when a page
// size was requested, and leaves the query untouched otherwise.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !req.Enabled() {
			return db
		}
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
