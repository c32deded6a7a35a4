package paging

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

const DefaultPageSize = 10

// Params selects a page. Page numbers start at zero.
type Params struct {
	PageNum  int `url:"pageNum"`
	PageSize int `url:"pageSize"`
}

// First is page zero at the default size.
func First() Params {
	return Params{PageNum: 0, PageSize: DefaultPageSize}
}

// Next is the page after p.
func (p Params) Next() Params {
	return Params{PageNum: p.PageNum + 1, PageSize: p.PageSize}
}

// Values encodes p as pageNum and pageSize query parameters.
func (p Params) Values() (url.Values, error) {
	if p.PageNum < 0 {
		p.PageNum = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	v, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("[paging.Values] %w", err)
	}
	return v, nil
}

type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Page is the backend's page envelope.
type Page[T any] struct {
	Content       []T      `json:"content"`
	Pageable      Pageable `json:"pageable"`
	TotalElements int      `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
	Last          bool     `json:"last"`
	First         bool     `json:"first"`
	Empty         bool     `json:"empty"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return !p.Last && !p.Empty
}

// NextParams selects the page after this one.
func (p *Page[T]) NextParams() Params {
	return Params{PageNum: p.Pageable.PageNumber + 1, PageSize: p.Pageable.PageSize}
}
