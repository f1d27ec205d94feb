// internal/app/router.go
package app

import (
	agentHandler "estate-portal/internal/handlers/agent"
	notifyHandler "estate-portal/internal/handlers/notification"
	propertyHandler "estate-portal/internal/handlers/property"
	referralHandler "estate-portal/internal/handlers/referral"
	savedViewHandler "estate-portal/internal/handlers/savedview"
	scheduleHandler "estate-portal/internal/handlers/schedule"
	sessionHandler "estate-portal/internal/handlers/session"
	wsHandler "estate-portal/internal/handlers/websocket"
	"estate-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	SessionHandler   *sessionHandler.SessionHandler
	AgentHandler     *agentHandler.AgentHandler
	PropertyHandler  *propertyHandler.PropertyHandler
	NotifHandler     *notifyHandler.NotificationHandler
	ScheduleHandler  *scheduleHandler.ScheduleHandler
	ReferralHandler  *referralHandler.ReferralHandler
	SavedViewHandler *savedViewHandler.SavedViewHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
	RefreshLimit     gin.HandlerFunc
}

// listRoutes are the routes every collection shares.
type listRoutes interface {
	List(c *gin.Context)
	Refresh(c *gin.Context)
	ApplyView(c *gin.Context)
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.AuthMiddleware.Auth(), h.WSHandler.HandleConnection)

	// ==================== Public Session Routes ====================
	api.POST("/session", h.SessionHandler.CreateSession)

	protected := api.Group("")
	protected.Use(h.AuthMiddleware.Auth())

	// ==================== Session ====================
	protected.GET("/session", h.SessionHandler.GetSession)
	protected.DELETE("/session", h.SessionHandler.DeleteSession)
	protected.GET("/ws/stats", h.WSHandler.GetStats)

	refresh := []gin.HandlerFunc{}
	if h.RefreshLimit != nil {
		refresh = append(refresh, h.RefreshLimit)
	}
	mountList := func(g *gin.RouterGroup, l listRoutes) {
		g.GET("", l.List)
		g.POST("/refresh", append(refresh, l.Refresh)...)
		g.POST("/apply-view/:viewId", l.ApplyView)
	}

	// ==================== Agents ====================
	agents := protected.Group("/agents")
	{
		mountList(agents, h.AgentHandler)
		agents.GET("/:id", h.AgentHandler.GetAgent)
	}

	// ==================== Properties ====================
	properties := protected.Group("/properties")
	{
		mountList(properties, h.PropertyHandler.Properties)
		properties.POST("", h.PropertyHandler.CreateProperty)
		properties.GET("/:id", h.PropertyHandler.GetProperty)
		properties.PATCH("/:id", h.PropertyHandler.UpdateProperty)
		properties.DELETE("/:id", h.PropertyHandler.DeleteProperty)

		units := properties.Group("/:id/sub-properties")
		mountList(units, h.PropertyHandler.SubProperties)
		units.POST("", h.PropertyHandler.CreateSubProperty)
		units.GET("/:subId", h.PropertyHandler.GetSubProperty)
		units.PATCH("/:subId", h.PropertyHandler.UpdateSubProperty)
		units.DELETE("/:subId", h.PropertyHandler.DeleteSubProperty)
	}

	// ==================== Notifications ====================
	notifications := protected.Group("/notifications")
	{
		mountList(notifications, h.NotifHandler)
		notifications.GET("/count/unread", h.NotifHandler.GetUnreadCount)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllAsRead)
		notifications.PUT("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.DELETE("/:id", h.NotifHandler.DeleteNotification)
	}

	// ==================== Schedules ====================
	schedules := protected.Group("/schedules")
	{
		mountList(schedules, h.ScheduleHandler)
		schedules.PATCH("/:id", h.ScheduleHandler.UpdateSchedule)
	}

	// ==================== Referrals ====================
	mountList(protected.Group("/referrals"), h.ReferralHandler)

	// ==================== Saved Views ====================
	if h.SavedViewHandler != nil {
		views := protected.Group("/saved-views")
		{
			views.GET("", h.SavedViewHandler.ListViews)
			views.POST("", h.SavedViewHandler.CreateView)
			views.GET("/:id", h.SavedViewHandler.GetView)
			views.PUT("/:id/default", h.SavedViewHandler.SetDefault)
			views.DELETE("/:id", h.SavedViewHandler.DeleteView)
		}
	} else {
		logger.Info("saved view routes not mounted")
	}
}
