// internal/handlers/savedview/savedview_handler.go
package savedview

import (
	"net/http"

	"estate-portal/internal/domain/savedview"
	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	service "estate-portal/internal/service/savedview"

	"github.com/gin-gonic/gin"
)

type SavedViewHandler struct {
	savedViewService *service.SavedViewService
}

func NewSavedViewHandler(savedViewService *service.SavedViewService) *SavedViewHandler {
	return &SavedViewHandler{savedViewService: savedViewService}
}

func (h *SavedViewHandler) CreateView(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var req savedview.CreateSavedViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.savedViewService.CreateView(c.Request.Context(), identity, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "saved view created", result)
}

func (h *SavedViewHandler) ListViews(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var filters savedview.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	views, err := h.savedViewService.ListViews(c.Request.Context(), identity, filters)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if views == nil {
		views = []savedview.SavedView{}
	}

	response.Success(c, http.StatusOK, "saved views retrieved", views)
}

func (h *SavedViewHandler) GetView(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	view, err := h.savedViewService.GetView(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "saved view retrieved", view)
}

// SetDefault makes the view the one applied to new list views of its collection
func (h *SavedViewHandler) SetDefault(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.savedViewService.SetDefault(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "default view updated", nil)
}

func (h *SavedViewHandler) DeleteView(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.savedViewService.DeleteView(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "saved view deleted", nil)
}
