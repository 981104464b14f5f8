// Package paginate implements the page merging protocol shared by blog
// lists, notifications and search results: pages are fetched by number,
// folded into one accumulated result list, and the skip offset of the
// next request is corrected for documents the user deleted locally
// since the total count was last fetched.
package paginate

import "context"

// CountFunc returns the authoritative total for the same filter the
// page was fetched with. The total is never derived from page sizes
// because concurrent deletions can shrink it between requests.
type CountFunc func(ctx context.Context) (int64, error)

// Page is the accumulated state of one paginated listing.
type Page[T any] struct {
	Results         []T
	TotalDocs       int64
	Page            int
	DeletedDocCount int
}

// Merge folds a newly fetched batch into prev. A nil prev or the
// replace flag starts the accumulation over; otherwise the batch is
// appended as-is, since batches come from strictly increasing skip
// offsets and cannot overlap.
func Merge[T any](ctx context.Context, prev *Page[T], batch []T, page int, count CountFunc, replace bool) (*Page[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	if prev == nil || replace {
		return &Page[T]{
			Results:   append([]T(nil), batch...),
			TotalDocs: total,
			Page:      page,
		}, nil
	}

	results := make([]T, 0, len(prev.Results)+len(batch))
	results = append(results, prev.Results...)
	results = append(results, batch...)

	return &Page[T]{
		Results:         results,
		TotalDocs:       total,
		Page:            page,
		DeletedDocCount: prev.DeletedDocCount,
	}, nil
}

// HasMore reports whether the server still holds documents beyond the
// accumulated results.
func (p *Page[T]) HasMore() bool {
	return p != nil && p.TotalDocs > int64(len(p.Results))
}

// NextSkip computes the skip offset for the next page request.
// Locally deleted documents shift the server-side ordinals of
// not-yet-fetched items, so the deletion counter is subtracted.
func (p *Page[T]) NextSkip(limit int) int {
	skip := p.Page*limit - p.DeletedDocCount
	if skip < 0 {
		skip = 0
	}
	return skip
}

// RemoveAt drops the result at index i after a successful server-side
// delete, keeping TotalDocs and the skip correction in sync.
func (p *Page[T]) RemoveAt(i int) {
	if i < 0 || i >= len(p.Results) {
		return
	}
	p.Results = append(p.Results[:i], p.Results[i+1:]...)
	p.TotalDocs--
	p.DeletedDocCount++
}
