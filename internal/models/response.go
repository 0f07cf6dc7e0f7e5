package models

// Envelope is the body of every API response. Code 200 means success, any
// other value is a domain error code.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// represents pagination parameters for queries
type PaginationParams struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps page to >= 1 and size to [1, MaxPageSize].
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// helper to calculate pagination metadata
func CalculatePaginationMeta(page, limit, total int) (totalPages int, hasNext, hasPrev bool) {
	if limit <= 0 {
		limit = 1 // avoid division by zero
	}
	totalPages = (total + limit - 1) / limit // ceiling division
	hasNext = page < totalPages
	hasPrev = page > 1
	return
}

// Page is a paginated list result.
type Page[T any] struct {
	Total      int  `json:"total"`
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPage[T any](items []T, total int, params PaginationParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages, hasNext, hasPrev := CalculatePaginationMeta(params.Page, params.Size, total)
	return Page[T]{
		Total:      total,
		Items:      items,
		Page:       params.Page,
		Size:       params.Size,
		TotalPages: totalPages,
		HasNext:    hasNext,
		HasPrev:    hasPrev,
	}
}
