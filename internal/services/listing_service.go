package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"boardgamelist/internal/cache"
	"boardgamelist/internal/domain"
	"boardgamelist/internal/obs"
)

// Execute counts the rows matching the filter and fetches the requested page.
func Execute[T any](ctx context.Context, src domain.DataSource[T], spec domain.QuerySpec) (domain.Page[T], error) {
	total, err := src.CountMatching(ctx, spec.FilterText)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("count %s: %w", spec.Resource, err)
	}
	items, err := fetchPage(ctx, src, spec)
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.Page[T]{Items: items, TotalMatching: total}, nil
}

func fetchPage[T any](ctx context.Context, src domain.DataSource[T], spec domain.QuerySpec) ([]T, error) {
	items, err := src.FetchPage(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page: %w", spec.Resource, err)
	}
	if len(items) > spec.PageSize {
		items = items[:spec.PageSize]
	}
	return items, nil
}

// Lister serves listings for one entity type through the shared page cache.
type Lister[T any] struct {
	Source domain.DataSource[T]
	Cache  *cache.PageCache
	TTL    time.Duration
}

// List always recounts so TotalMatching is current, while Items may come from a
// cached snapshot up to one TTL old. Mutations do not invalidate the cache.
func (l Lister[T]) List(ctx context.Context, spec domain.QuerySpec) (domain.Page[T], bool, error) {
	if l.Cache == nil {
		page, err := Execute(ctx, l.Source, spec)
		return page, false, err
	}

	total, err := l.Source.CountMatching(ctx, spec.FilterText)
	if err != nil {
		return domain.Page[T]{}, false, fmt.Errorf("count %s: %w", spec.Resource, err)
	}

	key := spec.CacheKey()
	if v, ok := l.Cache.Get(key); ok {
		if items, ok := v.([]T); ok {
			obs.CacheLookup(spec.Resource, true)
			return domain.Page[T]{Items: slices.Clone(items), TotalMatching: total}, true, nil
		}
	}
	obs.CacheLookup(spec.Resource, false)

	items, err := fetchPage(ctx, l.Source, spec)
	if err != nil {
		return domain.Page[T]{}, false, err
	}
	l.Cache.Set(key, slices.Clone(items), l.TTL)
	return domain.Page[T]{Items: items, TotalMatching: total}, false, nil
}
