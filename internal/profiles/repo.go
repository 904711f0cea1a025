package profiles

import (
	"context"
	"time"
)

// Filters narrow a listing. All fields are optional and combine with AND.
type Filters struct {
	// FullName is a case-insensitive substring match.
	FullName string
	// Skill is a case-insensitive substring match against the serialized
	// skills blob.
	Skill string
	// DateFrom/DateTo are inclusive bounds on processed_at.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Pagination selects a 1-indexed page.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// PageInfo describes the result window of a filtered listing.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// Repo defines persistence operations for submissions. Rows are immutable
// once created; callers always receive copies.
type Repo interface {
	Insert(ctx context.Context, rec ProfileRecord, artifactURL, originalFilename string) (int64, error)
	ListFiltered(ctx context.Context, f Filters, p Pagination) ([]Submission, PageInfo, error)
	GetByID(ctx context.Context, id int64) (Submission, error)
}
