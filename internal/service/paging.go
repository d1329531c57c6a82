package service

import (
	"fmt"
	"strings"
)

// Paging limits. Out-of-range inputs are clamped silently, never rejected.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// pagedSortFields enumerates sortable fields; unknown values fall back to
// "name".
var pagedSortFields = map[string]bool{
	"name":        true,
	"population":  true,
	"createddate": true,
}

// PagingRequest carries page window, search and sort parameters for a paged
// query.
type PagingRequest struct {
	PageNumber     int    `json:"pageNumber" query:"page"`
	PageSize       int    `json:"pageSize" query:"pageSize"`
	SearchTerm     string `json:"searchTerm" query:"search"`
	SortBy         string `json:"sortBy" query:"sortBy"`
	SortDescending bool   `json:"sortDescending" query:"sortDescending"`
}

// Normalize clamps the page window and canonicalizes search and sort so that
// equal requests always produce equal cache keys.
func (p PagingRequest) Normalize() PagingRequest {
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.SearchTerm = strings.ToLower(strings.TrimSpace(p.SearchTerm))
	p.SortBy = strings.ToLower(strings.TrimSpace(p.SortBy))
	if !pagedSortFields[p.SortBy] {
		p.SortBy = "name"
	}
	return p
}

// Offset is the number of records skipped before the current page.
func (p PagingRequest) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// CacheKey builds the deterministic key for this request under a prefix,
// e.g. "cities:paged:1:10:null:name:false". Every parameter that affects the
// result participates; an absent search term uses the "null" sentinel.
func (p PagingRequest) CacheKey(prefix string) string {
	term := p.SearchTerm
	if term == "" {
		term = "null"
	}
	return fmt.Sprintf("%s:%d:%d:%s:%s:%t",
		prefix, p.PageNumber, p.PageSize, term, p.SortBy, p.SortDescending)
}

// PagingInfo is pagination metadata fully derived from (currentPage,
// pageSize, totalRecords).
type PagingInfo struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalRecords    int  `json:"totalRecords"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	FirstRecord     int  `json:"firstRecord"`
	LastRecord      int  `json:"lastRecord"`
}

// NewPagingInfo computes the metadata: totalPages = ceil(total/size) (0 when
// empty), firstRecord/lastRecord are 1-based display indexes (0 when empty).
func NewPagingInfo(currentPage, pageSize, totalRecords int) PagingInfo {
	info := PagingInfo{
		CurrentPage:     currentPage,
		PageSize:        pageSize,
		TotalRecords:    totalRecords,
		HasPreviousPage: currentPage > 1,
	}
	if totalRecords > 0 {
		info.TotalPages = (totalRecords + pageSize - 1) / pageSize
		info.FirstRecord = (currentPage-1)*pageSize + 1
		info.LastRecord = currentPage * pageSize
		if info.LastRecord > totalRecords {
			info.LastRecord = totalRecords
		}
	}
	info.HasNextPage = currentPage < info.TotalPages
	return info
}

// PagedResult is one page of items plus its pagination metadata.
type PagedResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination PagingInfo `json:"pagination"`
}

func NewPagedResult[T any](data []T, currentPage, pageSize, totalRecords int) PagedResult[T] {
	return PagedResult[T]{
		Data:       data,
		Pagination: NewPagingInfo(currentPage, pageSize, totalRecords),
	}
}
