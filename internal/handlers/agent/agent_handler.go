// internal/handlers/agent/agent_handler.go
package agent

import (
	"net/http"

	"estate-portal/internal/domain/agent"
	"estate-portal/internal/handlers/listing"
	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	service "estate-portal/internal/service/agent"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	*listing.Handler[agent.Agent]
	agentService *service.AgentService
}

func NewAgentHandler(agentService *service.AgentService, views listing.SavedViews) *AgentHandler {
	return &AgentHandler{
		Handler:      listing.NewHandler(agentService.Service, views),
		agentService: agentService,
	}
}

// GetAgent retrieves one agent
func (h *AgentHandler) GetAgent(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	result, err := h.agentService.GetAgent(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agent retrieved", result)
}
