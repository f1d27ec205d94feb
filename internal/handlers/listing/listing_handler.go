// internal/handlers/listing/listing_handler.go
package listing

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/savedview"
	"estate-portal/internal/middleware"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/response"
	"estate-portal/internal/service/listing"

	"github.com/gin-gonic/gin"
)

// SavedViews resolves the saved view named by an apply-view request.
type SavedViews interface {
	GetView(ctx context.Context, owner, id string) (*savedview.SavedView, error)
}

// ListData is the payload of every list endpoint.
type ListData[T any] struct {
	Items      []T                       `json:"items"`
	Page       collection.PageState      `json:"page"`
	State      collection.FetchState     `json:"state"`
	Error      string                    `json:"error,omitempty"`
	Stale      bool                      `json:"stale"`
	Filter     collection.FilterCriteria `json:"filter"`
	Sort       collection.SortCriteria   `json:"sort"`
	Generation uint64                    `json:"generation"`
}

// Handler serves list, refresh and apply-view for one collection.
type Handler[T collection.Record] struct {
	service *listing.Service[T]
	views   SavedViews
	scope   []string
}

// NewHandler builds a handler for a top level collection.
func NewHandler[T collection.Record](service *listing.Service[T], views SavedViews) *Handler[T] {
	return &Handler[T]{service: service, views: views}
}

// NewScopedHandler builds a handler whose views are keyed by the given
// route params, such as the parent property id.
func NewScopedHandler[T collection.Record](service *listing.Service[T], views SavedViews, params ...string) *Handler[T] {
	return &Handler[T]{service: service, views: views, scope: params}
}

// List renders the current page after applying the query.
func (h *Handler[T]) List(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	result, err := h.service.List(c.Request.Context(), identity, ParseQuery(c), h.parts(c)...)
	Render(c, h.service.Name()+" retrieved", result, err)
}

// Refresh refetches the collection and renders the current page.
func (h *Handler[T]) Refresh(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	result, err := h.service.Refresh(c.Request.Context(), identity, h.parts(c)...)
	Render(c, h.service.Name()+" refreshed", result, err)
}

// ApplyView loads a saved view's criteria and renders page one.
func (h *Handler[T]) ApplyView(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)
	if h.views == nil {
		response.NotFound(c, "saved views are not available")
		return
	}

	sv, err := h.views.GetView(c.Request.Context(), identity, c.Param("viewId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.ApplySaved(c.Request.Context(), identity, sv, h.parts(c)...)
	if err != nil && !result.Stale {
		response.FromError(c, err)
		return
	}
	Render(c, "saved view applied", result, err)
}

func (h *Handler[T]) parts(c *gin.Context) []string {
	if len(h.scope) == 0 {
		return nil
	}
	parts := make([]string, len(h.scope))
	for i, p := range h.scope {
		parts[i] = c.Param(p)
	}
	return parts
}

// Render writes a view result. A failed fetch that left an older snapshot
// in place is still a 200 carrying stale=true and the error text.
func Render[T any](c *gin.Context, message string, result collection.Result[T], err error) {
	if err == nil {
		err = result.Error
	}
	if err != nil && !result.Stale {
		response.FromError(c, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []T{}
	}
	data := ListData[T]{
		Items:      items,
		Page:       result.Page,
		State:      result.State,
		Stale:      result.Stale,
		Filter:     result.Filter,
		Sort:       result.Sort,
		Generation: result.Generation,
	}
	if err != nil {
		data.Error = xerrors.Message(err)
	}
	response.Success(c, http.StatusOK, message, data)
}

// ParseQuery reads the common list query. Absent keys are left nil so the
// view keeps its criteria, and malformed numbers are ignored.
func ParseQuery(c *gin.Context) listing.Query {
	q := listing.Query{
		Search: optional(c, "search"),
		Status: optional(c, "status"),
		Sort:   optional(c, "sort"),
		Dir:    optional(c, "dir"),
		Tie:    optional(c, "tie"),
		Page:   intQuery(c, "page"),
		Limit:  intQuery(c, "limit"),
	}
	if v, ok := c.GetQuery("refresh"); ok {
		q.Refresh, _ = strconv.ParseBool(v)
	}
	return q
}

func optional(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}

func intQuery(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
