package search

// DefaultPageSize is used when a request carries a non-positive page size.
const DefaultPageSize = 10

// Request is a paged filter request. Criteria are AND-combined; ordering of
// results is fixed (primary key descending) and not part of the request.
type Request struct {
	Query    []Criterion `json:"query"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// Offset returns the row offset implied by the requested page, never negative.
func (r Request) Offset() int {
	page := r.Page
	if page < 1 {
		page = 1
	}
	size := r.PageSize
	if size < 0 {
		size = 0
	}
	return (page - 1) * size
}

// Response is one page of search results plus paging metadata.
type Response[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalSize  int `json:"totalSize"`
	TotalPages int `json:"totalPages"`
}

// NewResponse assembles a response from an executed page. The reported page is
// derived from the effective offset and page size, so it stays consistent even
// when the executor corrected an invalid page size.
func NewResponse[T any](data []T, offset, pageSize, totalSize int) Response[T] {
	if data == nil {
		data = []T{}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Response[T]{
		Data:       data,
		Page:       offset/pageSize + 1,
		PageSize:   pageSize,
		TotalSize:  totalSize,
		TotalPages: (totalSize + pageSize - 1) / pageSize,
	}
}
