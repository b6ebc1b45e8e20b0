package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"boardgamelist/internal/cache"
	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
	"boardgamelist/internal/repositories"
)

// countingSource records how often each DataSource method runs.
type countingSource struct {
	domain.DataSource[models.BoardGame]
	counts, fetches int
	fetchErr        error
}

func (s *countingSource) CountMatching(ctx context.Context, filter string) (int64, error) {
	s.counts++
	return s.DataSource.CountMatching(ctx, filter)
}

func (s *countingSource) FetchPage(ctx context.Context, spec domain.QuerySpec) ([]models.BoardGame, error) {
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.DataSource.FetchPage(ctx, spec)
}

func goGames() *repositories.MemorySource[models.BoardGame] {
	return repositories.NewMemorySource(models.BoardGameSchema,
		models.BoardGame{ID: 1, Name: "Go", Year: 2001},
		models.BoardGame{ID: 2, Name: "Go", Year: 2010},
		models.BoardGame{ID: 3, Name: "Go", Year: 2020},
		models.BoardGame{ID: 4, Name: "Chess", Year: 1475},
	)
}

func TestListGoByYearDescending(t *testing.T) {
	lister := Lister[models.BoardGame]{Source: goGames(), Cache: cache.New(time.Minute)}
	spec, err := BuildQuerySpec(ListQuery{FilterQuery: "go", SortColumn: "year", SortOrder: "DESC", PageSize: "2"}, models.BoardGameSchema, 100)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}

	page, hit, err := lister.List(context.Background(), spec)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if hit {
		t.Fatalf("first request cannot be a cache hit")
	}
	if page.TotalMatching != 3 {
		t.Fatalf("expected recordCount 3, got %d", page.TotalMatching)
	}
	if len(page.Items) != 2 || page.Items[0].Year != 2020 || page.Items[1].Year != 2010 {
		t.Fatalf("unexpected items %+v", page.Items)
	}
}

func TestListRecountsLiveWhileItemsComeFromCache(t *testing.T) {
	store := goGames()
	src := &countingSource{DataSource: store}
	lister := Lister[models.BoardGame]{Source: src, Cache: cache.New(time.Minute)}
	spec, _ := BuildQuerySpec(ListQuery{FilterQuery: "go"}, models.BoardGameSchema, 100)
	ctx := context.Background()

	if _, _, err := lister.List(ctx, spec); err != nil {
		t.Fatalf("first list: %v", err)
	}
	store.Add(models.BoardGame{ID: 5, Name: "Go Stop", Year: 1990})

	page, hit, err := lister.List(ctx, spec)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if !hit {
		t.Fatalf("expected cache hit")
	}
	if page.TotalMatching != 4 {
		t.Fatalf("recordCount must be live, got %d", page.TotalMatching)
	}
	if len(page.Items) != 3 {
		t.Fatalf("items must be the cached snapshot, got %d", len(page.Items))
	}
	if src.counts != 2 || src.fetches != 1 {
		t.Fatalf("expected 2 counts and 1 fetch, got %d and %d", src.counts, src.fetches)
	}
}

func TestListCachedItemsAreIsolated(t *testing.T) {
	lister := Lister[models.BoardGame]{Source: goGames(), Cache: cache.New(time.Minute)}
	spec, _ := BuildQuerySpec(ListQuery{}, models.BoardGameSchema, 100)
	ctx := context.Background()

	first, _, _ := lister.List(ctx, spec)
	first.Items[0].Name = "mutated"

	second, _, _ := lister.List(ctx, spec)
	if second.Items[0].Name == "mutated" {
		t.Fatalf("caller mutation leaked into the cache")
	}
}

func TestListFetchErrorIsNotCached(t *testing.T) {
	src := &countingSource{DataSource: goGames(), fetchErr: errors.New("connection reset")}
	c := cache.New(time.Minute)
	lister := Lister[models.BoardGame]{Source: src, Cache: c}
	spec, _ := BuildQuerySpec(ListQuery{}, models.BoardGameSchema, 100)

	if _, _, err := lister.List(context.Background(), spec); err == nil {
		t.Fatalf("expected error")
	}
	if c.Len() != 0 {
		t.Fatalf("failed fetch must not populate the cache")
	}
}

func TestExecuteWithoutCache(t *testing.T) {
	spec, _ := BuildQuerySpec(ListQuery{PageIndex: "1", PageSize: "3"}, models.BoardGameSchema, 100)
	page, err := Execute[models.BoardGame](context.Background(), goGames(), spec)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if page.TotalMatching != 4 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestListRepopulatesAfterTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := goGames()
	src := &countingSource{DataSource: store}
	lister := Lister[models.BoardGame]{
		Source: src,
		Cache:  cache.New(time.Minute, cache.WithClock(func() time.Time { return now })),
	}
	spec, _ := BuildQuerySpec(ListQuery{FilterQuery: "go"}, models.BoardGameSchema, 100)
	ctx := context.Background()

	if _, _, err := lister.List(ctx, spec); err != nil {
		t.Fatalf("first list: %v", err)
	}
	store.Add(models.BoardGame{ID: 5, Name: "Go Stop", Year: 1990})
	now = now.Add(61 * time.Second)

	page, hit, err := lister.List(ctx, spec)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if hit {
		t.Fatalf("expired entry must not be served")
	}
	if src.fetches != 2 {
		t.Fatalf("expected a refetch after expiry, got %d fetches", src.fetches)
	}
	if len(page.Items) != 4 || page.TotalMatching != 4 {
		t.Fatalf("expected the refreshed snapshot, got %d items of %d", len(page.Items), page.TotalMatching)
	}

	page, hit, _ = lister.List(ctx, spec)
	if !hit || len(page.Items) != 4 {
		t.Fatalf("refreshed snapshot not cached: hit=%v items=%d", hit, len(page.Items))
	}
	if src.fetches != 2 {
		t.Fatalf("cached read refetched, got %d fetches", src.fetches)
	}
}
