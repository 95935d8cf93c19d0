package objstore

import "context"

// Lister returns one page of a bucket listing. *Client implements it.
type Lister interface {
	List(ctx context.Context, params ListParams) (*ListPage, error)
}

// ListPaginator walks a bucket listing one page at a time. A page is only
// requested when NextPage is called, so abandoning the paginator never
// costs an extra request.
type ListPaginator struct {
	lister Lister
	params ListParams

	done bool
}

// NewListPaginator returns a paginator that starts from
// params.ContinuationToken, or from the beginning if it is empty.
func NewListPaginator(l Lister, params ListParams) *ListPaginator {
	return &ListPaginator{
		lister: l,
		params: params,
	}
}

// HasMorePages reports whether NextPage would issue another request.
func (p *ListPaginator) HasMorePages() bool {
	return !p.done
}

// NextPage fetches the next page. After the last page, or after a failed
// page, it returns ErrPaginationDone without issuing a request.
func (p *ListPaginator) NextPage(ctx context.Context) (*ListPage, error) {
	if p.done {
		return nil, ErrPaginationDone
	}
	page, err := p.lister.List(ctx, p.params)
	if err != nil {
		p.done = true
		return nil, err
	}
	if !page.IsTruncated || page.NextContinuationToken == "" {
		p.done = true
	}
	p.params.ContinuationToken = page.NextContinuationToken
	return page, nil
}
