package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/http/middleware"
	"boardgamelist/internal/services"
	"boardgamelist/internal/utils"

	"github.com/gin-gonic/gin"
)

// Patch is the partial update payload of one catalog resource.
type Patch[T any] interface {
	RecordID() int64
	Apply(record *T, now time.Time)
	Values() url.Values
}

// Catalog serves list, update and delete for one resource. T is the stored record,
// L the listing row and P the update payload.
type Catalog[T any, L any, P Patch[T]] struct {
	Schema      domain.Schema[T]
	Store       domain.RecordStore[T]
	Lister      services.Lister[T]
	Project     func(T) L
	MaxPageSize int
	Now         func() time.Time
}

func (h Catalog[T, L, P]) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// List answers GET /<Resource> through the query pipeline.
func (h Catalog[T, L, P]) List(c *gin.Context) {
	var raw services.ListQuery
	if err := c.ShouldBindQuery(&raw); err != nil {
		RespondBindError(c, err)
		return
	}
	spec, err := services.BuildQuerySpec(raw, h.Schema, h.MaxPageSize)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	page, fromCache, err := h.Lister.List(c.Request.Context(), spec)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	rows := make([]L, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, h.Project(item))
	}
	if fromCache {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, domain.NewListEnvelope(domain.Page[L]{Items: rows, TotalMatching: page.TotalMatching}, spec, baseURL(c)))
}

// Update answers POST /<Resource>. A missing id is not an error: data is null.
func (h Catalog[T, L, P]) Update(c *gin.Context) {
	var patch P
	if !BindJSONOrError(c, &patch) {
		return
	}
	now := h.now()
	record, err := h.Store.Update(c.Request.Context(), patch.RecordID(), func(t *T) {
		patch.Apply(t, now)
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), h.Schema.Resource, "update",
		"id="+strconv.FormatInt(patch.RecordID(), 10)+" found="+strconv.FormatBool(record != nil))

	href := domain.SelfHref(baseURL(c), h.Schema.Resource, patch.Values())
	c.JSON(http.StatusOK, domain.NewRecordEnvelope(record, href, http.MethodPost))
}

// Delete answers DELETE /<Resource>?id=. A missing id is not an error: data is null.
func (h Catalog[T, L, P]) Delete(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "must be a positive integer"})
		return
	}
	record, err := h.Store.Delete(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), h.Schema.Resource, "delete",
		"id="+raw+" found="+strconv.FormatBool(record != nil))

	href := domain.SelfHref(baseURL(c), h.Schema.Resource, url.Values{"id": {strconv.FormatInt(id, 10)}})
	c.JSON(http.StatusOK, domain.NewRecordEnvelope(record, href, http.MethodDelete))
}
