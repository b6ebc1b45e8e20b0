package domain

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Link is a hypermedia reference attached to every response.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Envelope wraps every catalog response. Paging fields are nil for mutations.
type Envelope[T any] struct {
	Data        T      `json:"data"`
	PageIndex   *int   `json:"pageIndex,omitempty"`
	PageSize    *int   `json:"pageSize,omitempty"`
	RecordCount *int64 `json:"recordCount,omitempty"`
	Links       []Link `json:"links"`
}

// SelfHref builds "<baseURL>/<resource>?<params>".
func SelfHref(baseURL, resource string, params url.Values) string {
	href := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(resource, "/")
	if len(params) > 0 {
		href += "?" + params.Encode()
	}
	return href
}

// NewListEnvelope wraps a listing page. The self link repeats pageIndex and pageSize.
func NewListEnvelope[T any](page Page[T], spec QuerySpec, baseURL string) Envelope[[]T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	pageIndex, pageSize, total := spec.PageIndex, spec.PageSize, page.TotalMatching
	params := url.Values{}
	params.Set("pageIndex", strconv.Itoa(spec.PageIndex))
	params.Set("pageSize", strconv.Itoa(spec.PageSize))
	return Envelope[[]T]{
		Data:        items,
		PageIndex:   &pageIndex,
		PageSize:    &pageSize,
		RecordCount: &total,
		Links: []Link{{
			Href:   SelfHref(baseURL, spec.Resource, params),
			Rel:    "self",
			Method: http.MethodGet,
		}},
	}
}

// NewRecordEnvelope wraps the record touched by a mutation; record may be nil.
func NewRecordEnvelope[T any](record *T, href, method string) Envelope[*T] {
	return Envelope[*T]{
		Data:  record,
		Links: []Link{{Href: href, Rel: "self", Method: method}},
	}
}
