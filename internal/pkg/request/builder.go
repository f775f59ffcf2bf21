package request

import (
	"strconv"

	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// Query parameter names understood by the course API
const (
	PageParam     = "page"
	PageSizeParam = "pageSize"
)

// Paging selects the slice of the course collection a read asks for.
type Paging struct {
	Page     int
	PageSize int
}

// DefaultPaging is the first page of ten courses
func DefaultPaging() Paging {
	return Paging{Page: helpers.DefaultPage, PageSize: helpers.DefaultPageSize}
}

// normalized replaces non-positive fields with the defaults
func (p Paging) normalized() Paging {
	if p.Page < 1 {
		p.Page = helpers.DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = helpers.DefaultPageSize
	}
	return p
}

// Identity is the caller identity header attached to writes.
type Identity struct {
	Header string
	Value  string
}

// DefaultIdentity is the placeholder identity sent by the reference front-end
func DefaultIdentity() Identity {
	return Identity{Header: "X-Auth", Value: "userId"}
}

// ReadParams builds the query parameters of a course list read
func ReadParams(p Paging) Params {
	p = p.normalized()
	return NewParams().
		Set(PageParam, strconv.Itoa(p.Page)).
		Set(PageSizeParam, strconv.Itoa(p.PageSize))
}

// WriteHeaders builds the header set of a course write
func WriteHeaders(id Identity) Headers {
	if id.Header == "" {
		id = DefaultIdentity()
	}
	return NewHeaders().Set(id.Header, id.Value)
}
