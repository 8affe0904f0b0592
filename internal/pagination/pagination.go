// Package pagination slices ordered result sets into pages and builds the paged envelope.
package pagination

import (
	"context" // Request context for queries
	"errors"  // Sentinel errors
	"math"    // Offset bounds

	"gorm.io/gorm" // GORM ORM library
)

const (
	DefaultPage = 1  // First page
	DefaultSize = 50 // Rows per page
)

// ErrInvalidParams is returned when page or size is below 1.
var ErrInvalidParams = errors.New("page and size must be positive")

// PageParams is bound from the page and size query parameters.
type PageParams struct {
	Page int `form:"page,default=1" binding:"min=1"`  // 1-based page number
	Size int `form:"size,default=50" binding:"min=1"` // Rows per page
}

// Validate reports ErrInvalidParams for a page or size below 1.
func (p PageParams) Validate() error {
	// Both values are 1-based
	if p.Page < 1 || p.Size < 1 {
		return ErrInvalidParams
	}
	return nil
}

// Offset is the index of the first row of the page.
// It saturates at math.MaxInt64 when (page-1)*size does not fit.
func (p PageParams) Offset() int64 {
	// Nothing to skip on the first page
	if p.Page <= 1 || p.Size < 1 {
		return 0
	}
	skipped := int64(p.Page - 1) // Full pages before this one
	// Guard the multiplication
	if skipped > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return skipped * int64(p.Size)
}

// PagedResponse is the envelope returned by every list endpoint.
type PagedResponse[R any] struct {
	TotalResults int64 `json:"total_results"` // Rows matching the filter
	Page         int   `json:"page"`          // Requested page
	Pages        int   `json:"pages"`         // ceil(total_results / size)
	Size         int   `json:"size"`          // Requested size
	Results      []R   `json:"results"`       // Rows of this page
}

// Query is an already filtered and deterministically ordered result set.
type Query[T any] interface {
	Count(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Paginate counts the full result set, fetches the requested page and maps each row.
// Results is never nil, so an empty page encodes as [].
func Paginate[T, R any](ctx context.Context, q Query[T], params PageParams, mapper func(T) R) (*PagedResponse[R], error) {
	// Reject page or size below 1
	if err := params.Validate(); err != nil {
		return nil, err
	}
	total, err := q.Count(ctx) // Count ignores page and size
	if err != nil {
		return nil, err
	}
	resp := &PagedResponse[R]{
		TotalResults: total,                         // Full count
		Page:         params.Page,                   // Echo page
		Pages:        PageCount(total, params.Size), // Page count
		Size:         params.Size,                   // Echo size
		Results:      []R{},                         // Never null in JSON
	}
	offset := params.Offset() // First row of the page
	// Past the end: nothing to fetch
	if offset >= total {
		return resp, nil
	}
	rows, err := q.Fetch(ctx, int(offset), params.Size) // offset < total, so it fits
	if err != nil {
		return nil, err
	}
	resp.Results = make([]R, 0, len(rows)) // Mapped rows
	for _, row := range rows {
		resp.Results = append(resp.Results, mapper(row))
	}
	return resp, nil
}

// PageCount returns ceil(total/size).
func PageCount(total int64, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	pages := total / int64(size) // Full pages
	// One more for the remainder
	if total%int64(size) != 0 {
		pages++
	}
	return int(pages)
}

// Identity is a mapper that returns rows unchanged.
func Identity[T any](v T) T {
	return v
}

// GormQuery runs Count and Find against a model with the given scopes and order.
// Each call starts a fresh session so Count and Find never share statement state.
type GormQuery[T any] struct {
	db     *gorm.DB                  // Database handle
	scopes []func(*gorm.DB) *gorm.DB // Filter scopes
	order  string                    // Mandatory order clause
}

// NewGormQuery builds a query over T. order is mandatory, pages are undefined without it.
func NewGormQuery[T any](db *gorm.DB, order string, scopes ...func(*gorm.DB) *gorm.DB) *GormQuery[T] {
	return &GormQuery[T]{db: db, scopes: scopes, order: order}
}

func (q *GormQuery[T]) base(ctx context.Context) *gorm.DB {
	var model T // Table comes from the model
	return q.db.WithContext(ctx).Model(&model).Scopes(q.scopes...)
}

func (q *GormQuery[T]) Count(ctx context.Context) (int64, error) {
	var total int64 // Matching rows
	err := q.base(ctx).Count(&total).Error
	return total, err
}

func (q *GormQuery[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	var rows []T // Page rows
	err := q.base(ctx).Order(q.order).Offset(offset).Limit(limit).Find(&rows).Error
	return rows, err
}

// SliceQuery serves pages from an in-memory slice that is already ordered.
type SliceQuery[T any] struct {
	Items []T
}

func (q SliceQuery[T]) Count(context.Context) (int64, error) {
	return int64(len(q.Items)), nil
}

func (q SliceQuery[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	// Out of range or empty page
	if offset < 0 || limit < 1 || offset >= len(q.Items) {
		return nil, nil
	}
	end := offset + min(limit, len(q.Items)-offset) // Never past the slice
	out := make([]T, end-offset)
	copy(out, q.Items[offset:end])
	return out, nil
}
