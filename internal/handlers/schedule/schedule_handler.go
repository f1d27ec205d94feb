// internal/handlers/schedule/schedule_handler.go
package schedule

import (
	"net/http"

	"estate-portal/internal/domain/schedule"
	"estate-portal/internal/handlers/listing"
	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	service "estate-portal/internal/service/schedule"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	*listing.Handler[schedule.Schedule]
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService, views listing.SavedViews) *ScheduleHandler {
	return &ScheduleHandler{
		Handler:         listing.NewHandler(scheduleService.Service, views),
		scheduleService: scheduleService,
	}
}

// UpdateSchedule changes a viewing's status, date or note
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	var req schedule.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.scheduleService.UpdateSchedule(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "schedule updated", result)
}
