package domain

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// SortOrder is the validated direction of a listing sort.
type SortOrder string

const (
	SortAscending  SortOrder = "ASC"
	SortDescending SortOrder = "DESC"
)

// ParseSortOrder accepts asc/desc in any case. Empty input is not accepted here;
// defaults are applied by the builder.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc":
		return SortAscending, true
	case "desc":
		return SortDescending, true
	}
	return "", false
}

// QuerySpec is the normalized form of a listing request.
type QuerySpec struct {
	Resource   string    `json:"resource"`
	FilterText string    `json:"filterQuery,omitempty"`
	SortColumn string    `json:"sortColumn"`
	SortOrder  SortOrder `json:"sortOrder"`
	PageIndex  int       `json:"pageIndex"`
	PageSize   int       `json:"pageSize"`
}

// Offset is the number of matching rows skipped before the page starts.
func (q QuerySpec) Offset() int64 {
	return int64(q.PageIndex) * int64(q.PageSize)
}

// CacheKey serializes q deterministically. url.Values.Encode sorts keys, so the
// layout never depends on how the request spelled its query string.
func (q QuerySpec) CacheKey() string {
	v := url.Values{}
	v.Set("filterQuery", q.FilterText)
	v.Set("sortColumn", q.SortColumn)
	v.Set("sortOrder", string(q.SortOrder))
	v.Set("pageIndex", strconv.Itoa(q.PageIndex))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	return q.Resource + ":" + v.Encode()
}

// Page is one materialized slice of a listing.
type Page[T any] struct {
	Items         []T
	TotalMatching int64
}

// SortAllowList is what the QuerySpec builder needs to know about an entity.
type SortAllowList interface {
	ResourceName() string
	DefaultSortColumn() string
	// CanonicalColumn resolves a client supplied column name (any case) to its
	// canonical spelling.
	CanonicalColumn(name string) (string, bool)
}

// Column binds a public sort column name to its SQL identifier and an in-process
// comparator.
type Column[T any] struct {
	Name string
	SQL  string
	Less func(a, b T) bool
}

// Schema describes the listable surface of an entity.
type Schema[T any] struct {
	Resource    string
	Table       string
	FilterSQL   string
	DefaultSort string
	Columns     []Column[T]
	FilterValue func(T) string
	Key         func(T) int64
}

func (s Schema[T]) ResourceName() string      { return s.Resource }
func (s Schema[T]) DefaultSortColumn() string { return s.DefaultSort }

func (s Schema[T]) CanonicalColumn(name string) (string, bool) {
	c, ok := s.Column(name)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// Column looks a sort column up by name, ignoring case.
func (s Schema[T]) Column(name string) (Column[T], bool) {
	name = strings.TrimSpace(name)
	for _, c := range s.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column[T]{}, false
}

// SortableNames lists the canonical column names, in declaration order.
func (s Schema[T]) SortableNames() []string {
	out := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		out = append(out, c.Name)
	}
	return out
}

// DataSource is the read side a listing pipeline queries.
type DataSource[T any] interface {
	CountMatching(ctx context.Context, filterText string) (int64, error)
	FetchPage(ctx context.Context, spec QuerySpec) ([]T, error)
}

// RecordStore adds the single-record mutations used by update and delete.
// Both return (nil, nil) when no record has the given id.
type RecordStore[T any] interface {
	DataSource[T]
	Update(ctx context.Context, id int64, apply func(*T)) (*T, error)
	Delete(ctx context.Context, id int64) (*T, error)
	Ping(ctx context.Context) error
}
