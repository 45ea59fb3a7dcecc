package handler

import (
	"mobile-wallet-service/internal/adapter/http/dto"
	"mobile-wallet-service/internal/core/ports"
	"mobile-wallet-service/pkg/apperror"
	"mobile-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-only endpoints. Routing guards them with
// JWTAuth plus AdminOnly, so the role is already checked here.
type AdminHandler struct {
	adminSvc ports.AdminService
	querySvc ports.QueryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService, querySvc ports.QueryService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, querySvc: querySvc}
}

// ListPendingAgents handles GET /admin/pending-agents.
func (h *AdminHandler) ListPendingAgents(c *gin.Context) {
	agents, err := h.adminSvc.ListPendingAgents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toAccountResponses(agents))
}

// ApproveAgent handles PUT /admin/approve-agent.
func (h *AdminHandler) ApproveAgent(c *gin.Context) {
	var req dto.ApproveAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.adminSvc.ApproveAgent(c.Request.Context(), req.AgentEmail); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Agent approved successfully!"})
}

// SystemBalance handles GET /admin/system-balance.
func (h *AdminHandler) SystemBalance(c *gin.Context) {
	total, err := h.querySvc.SystemBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SystemBalanceResponse{TotalBalance: total})
}
