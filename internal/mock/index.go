package mock

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/console"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
)

var _ console.Index = (*Index)(nil)

// Index is a mock implementation of console.Index.
type Index struct {
	HashFn     func(ctx context.Context, key string) (index.Document, error)
	HashesFn   func(ctx context.Context, keys []string) ([]index.Document, error)
	ScoreFn    func(ctx context.Context, key, member string) (float64, bool, error)
	RevRankFn  func(ctx context.Context, key, member string) (int64, bool, error)
	RevRangeFn func(ctx context.Context, key string, start, stop int64) ([]index.Member, error)
	CardFn     func(ctx context.Context, key string) (int64, error)
	MembersFn  func(ctx context.Context, key string) ([]string, error)
	TypeFn     func(ctx context.Context, key string) (index.KeyType, error)
	InfoFn     func(ctx context.Context) (index.ServerInfo, error)
}

func (i *Index) Hash(ctx context.Context, key string) (index.Document, error) {
	return i.HashFn(ctx, key)
}

func (i *Index) Hashes(ctx context.Context, keys []string) ([]index.Document, error) {
	return i.HashesFn(ctx, keys)
}

func (i *Index) Score(ctx context.Context, key, member string) (float64, bool, error) {
	return i.ScoreFn(ctx, key, member)
}

func (i *Index) RevRank(ctx context.Context, key, member string) (int64, bool, error) {
	return i.RevRankFn(ctx, key, member)
}

func (i *Index) RevRange(ctx context.Context, key string, start, stop int64) ([]index.Member, error) {
	return i.RevRangeFn(ctx, key, start, stop)
}

func (i *Index) Card(ctx context.Context, key string) (int64, error) {
	return i.CardFn(ctx, key)
}

func (i *Index) Members(ctx context.Context, key string) ([]string, error) {
	return i.MembersFn(ctx, key)
}

func (i *Index) Type(ctx context.Context, key string) (index.KeyType, error) {
	return i.TypeFn(ctx, key)
}

func (i *Index) Info(ctx context.Context) (index.ServerInfo, error) {
	return i.InfoFn(ctx)
}
