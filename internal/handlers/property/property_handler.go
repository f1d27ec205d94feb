// internal/handlers/property/property_handler.go
package property

import (
	"net/http"

	"estate-portal/internal/domain/property"
	"estate-portal/internal/handlers/listing"
	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	service "estate-portal/internal/service/property"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	Properties      *listing.Handler[property.Property]
	SubProperties   *listing.Handler[property.SubProperty]
	propertyService *service.PropertyService
	logger          *zap.Logger
}

func NewPropertyHandler(propertyService *service.PropertyService, views listing.SavedViews, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		Properties:      listing.NewHandler(propertyService.Properties(), views),
		SubProperties:   listing.NewScopedHandler(propertyService.SubProperties(), views, "id"),
		propertyService: propertyService,
		logger:          logger,
	}
}

// ========== Properties ==========

// GetProperty returns a property with its effective status and units
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	detail, err := h.propertyService.Detail(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "property retrieved", detail)
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var req property.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.propertyService.CreateProperty(c.Request.Context(), identity, req)
	if err != nil {
		h.logger.Warn("create property failed", zap.String("identity", identity), zap.Error(err))
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "property created", result)
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var req property.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.propertyService.UpdateProperty(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "property updated", result)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.propertyService.DeleteProperty(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "property deleted", nil)
}

// ========== Sub-properties ==========

func (h *PropertyHandler) GetSubProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	result, err := h.propertyService.GetSubProperty(c.Request.Context(), identity, c.Param("id"), c.Param("subId"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "sub-property retrieved", result)
}

func (h *PropertyHandler) CreateSubProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var req property.CreateSubPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.propertyService.CreateSubProperty(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		h.logger.Warn("create sub-property failed",
			zap.String("identity", identity),
			zap.String("property_id", c.Param("id")),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "sub-property created", result)
}

func (h *PropertyHandler) UpdateSubProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var req property.UpdateSubPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.propertyService.UpdateSubProperty(c.Request.Context(), identity, c.Param("id"), c.Param("subId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "sub-property updated", result)
}

func (h *PropertyHandler) DeleteSubProperty(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.propertyService.DeleteSubProperty(c.Request.Context(), identity, c.Param("id"), c.Param("subId")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "sub-property deleted", nil)
}
