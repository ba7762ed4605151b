package mock

import (
	"context"
	"iter"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/console"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
)

var _ console.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of console.Searcher.
type Searcher struct {
	SearchFn  func(ctx context.Context, query string, opts console.SearchOptions) iter.Seq2[*index.Result, error]
	ReverseFn func(ctx context.Context, lat, lon float64) iter.Seq2[*index.Result, error]
}

func (s *Searcher) Search(ctx context.Context, query string, opts console.SearchOptions) iter.Seq2[*index.Result, error] {
	return s.SearchFn(ctx, query, opts)
}

func (s *Searcher) Reverse(ctx context.Context, lat, lon float64) iter.Seq2[*index.Result, error] {
	return s.ReverseFn(ctx, lat, lon)
}

// Results returns a sequence yielding rs in order.
func Results(rs ...*index.Result) iter.Seq2[*index.Result, error] {
	return func(yield func(*index.Result, error) bool) {
		for _, r := range rs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Failure returns a sequence yielding err alone.
func Failure(err error) iter.Seq2[*index.Result, error] {
	return func(yield func(*index.Result, error) bool) {
		yield(nil, err)
	}
}
