// Package search is a small forward and reverse geocoder over the index
// store. It ranks candidates by label similarity, importance and distance
// to an optional center, and reports each phase as a tracing span so the
// console can explain a query.
package search

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/text"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/geo"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/tracing"
)

// importanceWeight scales a document's stored importance into its score.
const importanceWeight = 0.1

// Store is the part of the index the engine reads.
type Store interface {
	Hashes(ctx context.Context, keys []string) ([]index.Document, error)
	MultiScore(ctx context.Context, member string, keys []string) ([]index.Score, error)
	RevRange(ctx context.Context, key string, start, stop int64) ([]index.Member, error)
	Card(ctx context.Context, key string) (int64, error)
	Members(ctx context.Context, key string) ([]string, error)
	Union(ctx context.Context, keys ...string) ([]string, error)
}

// Tokenizer splits a query into index tokens.
type Tokenizer interface {
	Tokenize(text string) iter.Seq[string]
}

// Options narrows a forward search. Lat and Lon are both set or both nil.
type Options struct {
	Lat *float64
	Lon *float64
}

func (o Options) center() (geo.Point, bool) {
	if o.Lat == nil || o.Lon == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *o.Lat, Lon: *o.Lon}, true
}

// Engine runs searches against a Store.
type Engine struct {
	store  Store
	tok    Tokenizer
	cfg    config.SearchConfig
	logger *slog.Logger
}

// NewEngine returns an Engine. Zero values in cfg fall back to one result,
// one candidate and a single concurrent lookup.
func NewEngine(store Store, tok Tokenizer, cfg config.SearchConfig) *Engine {
	cfg.Limit = max(cfg.Limit, 1)
	cfg.BucketSize = max(cfg.BucketSize, 1)
	cfg.Concurrency = max(cfg.Concurrency, 1)
	if cfg.GeohashPrecision == 0 {
		cfg.GeohashPrecision = 7
	}
	return &Engine{
		store:  store,
		tok:    tok,
		cfg:    cfg,
		logger: logger.WithComponent("search-engine"),
	}
}

type tokenStat struct {
	token string
	freq  int64
}

// Search returns the documents matching every token of query, best first.
func (e *Engine) Search(ctx context.Context, query string, opts Options) iter.Seq2[*index.Result, error] {
	return func(yield func(*index.Result, error) bool) {
		results, err := e.search(ctx, query, opts)
		emit(results, err, yield)
	}
}

// Reverse returns the documents closest to (lat, lon), nearest first.
func (e *Engine) Reverse(ctx context.Context, lat, lon float64) iter.Seq2[*index.Result, error] {
	return func(yield func(*index.Result, error) bool) {
		results, err := e.reverse(ctx, geo.Point{Lat: lat, Lon: lon})
		emit(results, err, yield)
	}
}

func emit(results []*index.Result, err error, yield func(*index.Result, error) bool) {
	if err != nil {
		yield(nil, err)
		return
	}
	for _, r := range results {
		if !yield(r, nil) {
			return
		}
	}
}

func (e *Engine) search(ctx context.Context, query string, opts Options) ([]*index.Result, error) {
	ctx, span := tracing.StartChildSpan(ctx, "search")
	defer span.End()
	span.SetAttr("query", query)

	tokens := e.tokens(query)
	span.SetAttr("tokens", len(tokens))
	if len(tokens) == 0 {
		return nil, nil
	}

	keys, err := e.candidates(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 && e.cfg.Autocomplete {
		keys, err = e.autocomplete(ctx, tokens)
		if err != nil {
			return nil, err
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	center, hasCenter := opts.center()
	results, err := e.load(ctx, keys, func(r *index.Result) {
		r.Score = text.CompareNgrams(query, r.Label) + importanceWeight*r.Importance
		if hasCenter {
			r.Score += geo.KmToScore(geo.HaversineKm(center, geo.Point{Lat: r.Lat, Lon: r.Lon}))
		}
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *index.Result) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	results = results[:min(len(results), e.cfg.Limit)]

	e.logger.Debug("search executed",
		"query", query,
		"tokens", tokens,
		"candidates", len(keys),
		"results", len(results),
	)
	return results, nil
}

// tokens returns the distinct tokens of query in first-seen order.
func (e *Engine) tokens(query string) []string {
	var tokens []string
	for tok := range e.tok.Tokenize(query) {
		if !slices.Contains(tokens, tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// candidates returns the keys of documents present in every token's
// posting list, drawn from the rarest token's best entries.
func (e *Engine) candidates(ctx context.Context, tokens []string) ([]string, error) {
	ctx, span := tracing.StartChildSpan(ctx, "candidates")
	defer span.End()

	stats, err := e.frequencies(ctx, tokens)
	if err != nil {
		return nil, err
	}
	rarest := slices.MinFunc(stats, func(a, b tokenStat) int {
		return cmp.Compare(a.freq, b.freq)
	})
	span.SetAttr("rarest", rarest.token)
	if rarest.freq == 0 {
		return nil, nil
	}

	bucket, err := e.store.RevRange(ctx, index.TokenKey(rarest.token), 0, int64(e.cfg.BucketSize-1))
	if err != nil {
		return nil, fmt.Errorf("reading posting list of %q: %w", rarest.token, err)
	}

	others := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens {
		if tok != rarest.token {
			others = append(others, index.TokenKey(tok))
		}
	}

	keys := make([]string, 0, len(bucket))
	for _, m := range bucket {
		ok, err := e.inAll(ctx, m.Member, others)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, m.Member)
		}
	}
	span.SetAttr("bucket", len(bucket))
	span.SetAttr("matched", len(keys))
	return keys, nil
}

// frequencies fetches the posting-list size of every token concurrently.
func (e *Engine) frequencies(ctx context.Context, tokens []string) ([]tokenStat, error) {
	ctx, span := tracing.StartChildSpan(ctx, "frequencies")
	defer span.End()

	stats := make([]tokenStat, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, tok := range tokens {
		g.Go(func() error {
			n, err := e.store.Card(gctx, index.TokenKey(tok))
			if err != nil {
				return fmt.Errorf("counting %q: %w", tok, err)
			}
			stats[i] = tokenStat{token: tok, freq: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, s := range stats {
		span.SetAttr(s.token, s.freq)
	}
	return stats, nil
}

func (e *Engine) inAll(ctx context.Context, docKey string, tokenKeys []string) (bool, error) {
	if len(tokenKeys) == 0 {
		return true, nil
	}
	scores, err := e.store.MultiScore(ctx, docKey, tokenKeys)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", docKey, err)
	}
	for _, s := range scores {
		if !s.Found {
			return false, nil
		}
	}
	return true, nil
}

// autocomplete retries the search with the last token replaced by each of
// its completions, stopping once the bucket is full.
func (e *Engine) autocomplete(ctx context.Context, tokens []string) ([]string, error) {
	ctx, span := tracing.StartChildSpan(ctx, "autocomplete")
	defer span.End()

	last := tokens[len(tokens)-1]
	completions, err := e.store.Members(ctx, index.EdgeNgramKey(last))
	if err != nil {
		return nil, fmt.Errorf("reading completions of %q: %w", last, err)
	}
	slices.Sort(completions)
	span.SetAttr("completions", len(completions))

	seen := make(map[string]struct{})
	var keys []string
	for _, completion := range completions {
		if completion == last {
			continue
		}
		expanded := append(slices.Clone(tokens[:len(tokens)-1]), completion)
		found, err := e.candidates(ctx, expanded)
		if err != nil {
			return nil, err
		}
		for _, k := range found {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if len(keys) >= e.cfg.BucketSize {
			break
		}
	}
	span.SetAttr("matched", len(keys))
	return keys, nil
}

func (e *Engine) reverse(ctx context.Context, p geo.Point) ([]*index.Result, error) {
	ctx, span := tracing.StartChildSpan(ctx, "reverse")
	defer span.End()
	span.SetAttr("lat", p.Lat)
	span.SetAttr("lon", p.Lon)

	cells := geo.Expand(p, e.cfg.GeohashPrecision)
	bucketKeys := make([]string, len(cells))
	for i, cell := range cells {
		bucketKeys[i] = index.GeohashKey(cell)
	}
	span.SetAttr("geohash", cells[0])

	keys, err := e.store.Union(ctx, bucketKeys...)
	if err != nil {
		return nil, fmt.Errorf("reading geohash buckets: %w", err)
	}
	span.SetAttr("candidates", len(keys))
	if len(keys) == 0 {
		return nil, nil
	}

	results, err := e.load(ctx, keys, func(r *index.Result) {
		r.Distance = geo.HaversineKm(p, geo.Point{Lat: r.Lat, Lon: r.Lon})
		r.Score = geo.KmToScore(r.Distance)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b *index.Result) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return results[:min(len(results), e.cfg.Limit)], nil
}

// load fetches the documents under keys and scores each one. Keys whose
// document has vanished are skipped.
func (e *Engine) load(ctx context.Context, keys []string, score func(*index.Result)) ([]*index.Result, error) {
	ctx, span := tracing.StartChildSpan(ctx, "load")
	defer span.End()

	docs, err := e.store.Hashes(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	results := make([]*index.Result, 0, len(docs))
	for i, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		r := index.NewResult(keys[i], doc)
		score(r)
		results = append(results, r)
	}
	span.SetAttr("documents", len(results))
	return results, nil
}
