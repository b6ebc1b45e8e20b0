package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"boardgamelist/internal/domain"
)

const (
	DefaultPageSize    = 10
	DefaultMaxPageSize = 100
)

// ListQuery holds the raw, untrusted listing parameters as they came off the URL.
type ListQuery struct {
	FilterQuery string `form:"filterQuery"`
	SortColumn  string `form:"sortColumn"`
	SortOrder   string `form:"sortOrder"`
	PageIndex   string `form:"pageIndex"`
	PageSize    string `form:"pageSize"`
}

// BuildQuerySpec validates raw against the entity allow-list. Unknown sort columns and
// orders are rejected; page bounds are clamped. All violations are reported together
// as domain.FieldErrors.
func BuildQuerySpec(raw ListQuery, allow domain.SortAllowList, maxPageSize int) (domain.QuerySpec, error) {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	var errs domain.FieldErrors

	spec := domain.QuerySpec{
		Resource:   allow.ResourceName(),
		FilterText: strings.TrimSpace(raw.FilterQuery),
		SortColumn: allow.DefaultSortColumn(),
		SortOrder:  domain.SortAscending,
		PageSize:   DefaultPageSize,
	}

	if col := strings.TrimSpace(raw.SortColumn); col != "" {
		canonical, ok := allow.CanonicalColumn(col)
		if !ok {
			errs = append(errs, domain.ValidationError{
				Field: "sortColumn",
				Msg:   fmt.Sprintf("%q is not a sortable column of %s", col, allow.ResourceName()),
				Err:   domain.ErrInvalidSortColumn,
			})
		} else {
			spec.SortColumn = canonical
		}
	}

	if ord := strings.TrimSpace(raw.SortOrder); ord != "" {
		order, ok := domain.ParseSortOrder(ord)
		if !ok {
			errs = append(errs, domain.ValidationError{
				Field: "sortOrder",
				Msg:   "must be ASC or DESC",
				Err:   domain.ErrInvalidSortOrder,
			})
		} else {
			spec.SortOrder = order
		}
	}

	if s := strings.TrimSpace(raw.PageSize); s != "" {
		n, ok := parsePageNumber(s)
		if !ok {
			errs = append(errs, domain.ValidationError{
				Field: "pageSize",
				Msg:   fmt.Sprintf("the value %q is not a valid number", s),
				Err:   domain.ErrInvalidPageSize,
			})
		} else {
			spec.PageSize = min(max(n, 1), maxPageSize)
		}
	}

	if s := strings.TrimSpace(raw.PageIndex); s != "" {
		n, ok := parsePageNumber(s)
		if !ok {
			errs = append(errs, domain.ValidationError{
				Field: "pageIndex",
				Msg:   fmt.Sprintf("the value %q is not a valid number", s),
				Err:   domain.ErrInvalidPageIndex,
			})
		} else {
			spec.PageIndex = max(n, 0)
		}
	}

	if int64(spec.PageIndex) > math.MaxInt64/int64(spec.PageSize) {
		errs = append(errs, domain.ValidationError{
			Field: "pageIndex",
			Msg:   "page offset out of range",
			Err:   domain.ErrInvalidPageIndex,
		})
	}

	if err := errs.OrNil(); err != nil {
		return domain.QuerySpec{}, err
	}
	return spec, nil
}

// parsePageNumber accepts any integer literal. Values beyond the int range saturate
// to the nearest bound so the caller's clamping applies to them too.
func parsePageNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}
