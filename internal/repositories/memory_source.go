package repositories

import (
	"context"
	"slices"
	"strings"
	"sync"

	"boardgamelist/internal/domain"
)

// MemorySource keeps records of one entity in process and sorts them with the
// comparators of its schema. It backs DATA_SOURCE=memory and the tests.
type MemorySource[T any] struct {
	mu     sync.RWMutex
	schema domain.Schema[T]
	rows   []T
}

var _ domain.RecordStore[struct{}] = (*MemorySource[struct{}])(nil)

func NewMemorySource[T any](schema domain.Schema[T], rows ...T) *MemorySource[T] {
	return &MemorySource[T]{schema: schema, rows: slices.Clone(rows)}
}

// Add appends records as if inserted after the existing ones.
func (s *MemorySource[T]) Add(rows ...T) {
	s.mu.Lock()
	s.rows = append(s.rows, rows...)
	s.mu.Unlock()
}

func (s *MemorySource[T]) matches(row T, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.schema.FilterValue(row)), strings.ToLower(filter))
}

func (s *MemorySource[T]) CountMatching(ctx context.Context, filterText string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, row := range s.rows {
		if s.matches(row, filterText) {
			n++
		}
	}
	return n, nil
}

func (s *MemorySource[T]) FetchPage(ctx context.Context, spec domain.QuerySpec) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	col, ok := s.schema.Column(spec.SortColumn)
	if !ok {
		return nil, domain.ValidationError{Field: "sortColumn", Err: domain.ErrInvalidSortColumn}
	}

	s.mu.RLock()
	matched := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if s.matches(row, spec.FilterText) {
			matched = append(matched, row)
		}
	}
	s.mu.RUnlock()

	// Primary key order first, then a stable sort on the column keeps ties in key order.
	slices.SortStableFunc(matched, func(a, b T) int {
		return cmpInt64(s.schema.Key(a), s.schema.Key(b))
	})
	slices.SortStableFunc(matched, func(a, b T) int {
		if spec.SortOrder == domain.SortDescending {
			a, b = b, a
		}
		switch {
		case col.Less(a, b):
			return -1
		case col.Less(b, a):
			return 1
		}
		return 0
	})

	offset := spec.Offset()
	if offset >= int64(len(matched)) {
		return []T{}, nil
	}
	end := min(offset+int64(spec.PageSize), int64(len(matched)))
	return slices.Clone(matched[offset:end]), nil
}

func (s *MemorySource[T]) Update(ctx context.Context, id int64, apply func(*T)) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.schema.Key(s.rows[i]) == id {
			row := s.rows[i]
			apply(&row)
			s.rows[i] = row
			return &row, nil
		}
	}
	return nil, nil
}

func (s *MemorySource[T]) Delete(ctx context.Context, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.schema.Key(s.rows[i]) == id {
			row := s.rows[i]
			s.rows = slices.Delete(s.rows, i, i+1)
			return &row, nil
		}
	}
	return nil, nil
}

func (s *MemorySource[T]) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
